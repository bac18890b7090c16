package premium

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// maxClockSkew tolerates small clock drift between client and server when
// the token's embedded instant sits slightly in the future.
const maxClockSkew = 2 * time.Minute

// minEpochMillis rejects numeric tokens that are clearly not millisecond
// timestamps (anything before 2001-09-09 in epoch millis).
const minEpochMillis = int64(1_000_000_000_000)

// TokenInstant extracts the instant embedded in a premium token.
//
// Two token forms are accepted: a decimal epoch-milliseconds string as sent
// by the extension, and an HS256 JWT whose issued-at claim carries the
// instant. The JWT form is only honored when a signing secret is configured.
func TokenInstant(token, secret string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return time.Time{}, false
	}

	if millis, errParse := strconv.ParseInt(token, 10, 64); errParse == nil {
		if millis < minEpochMillis {
			return time.Time{}, false
		}
		return time.UnixMilli(millis), true
	}

	if secret == "" {
		return time.Time{}, false
	}
	return jwtIssuedAt(token, secret)
}

// jwtIssuedAt parses and verifies an HS256 token and returns its iat claim.
func jwtIssuedAt(token, secret string) (time.Time, bool) {
	parsed, errParse := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if errParse != nil || !parsed.Valid {
		return time.Time{}, false
	}
	issuedAt, errClaim := parsed.Claims.GetIssuedAt()
	if errClaim != nil || issuedAt == nil {
		return time.Time{}, false
	}
	return issuedAt.Time, true
}

// TokenFresh reports whether the token's embedded instant lies within the
// freshness window relative to now. Malformed tokens are never fresh.
func TokenFresh(token, secret string, window time.Duration, now time.Time) bool {
	instant, ok := TokenInstant(token, secret)
	if !ok {
		return false
	}
	elapsed := now.Sub(instant)
	if elapsed < -maxClockSkew {
		return false
	}
	return elapsed <= window
}
