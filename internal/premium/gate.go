package premium

import (
	"context"
	"errors"
	"time"

	"github.com/drip-check/drip-check-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GateConfig holds the gating policy knobs.
type GateConfig struct {
	// FreshnessWindow bounds how old a premium token's instant may be.
	FreshnessWindow time.Duration
	// TokenSecret enables the signed JWT token form when non-empty.
	TokenSecret string
	// AllowDevBypass short-circuits the gate to premium for any non-empty
	// user. Only honored in development configs.
	AllowDevBypass bool
}

// Gate decides premium status from the persisted subscription state with a
// token-freshness fallback. Lookups write through the status cache on every
// resolved branch, positive or negative.
type Gate struct {
	db    *gorm.DB
	cache *StatusCache
	cfg   GateConfig
	nowFn func() time.Time
}

// NewGate constructs a Gate.
func NewGate(db *gorm.DB, cache *StatusCache, cfg GateConfig) *Gate {
	return &Gate{
		db:    db,
		cache: cache,
		cfg:   cfg,
		nowFn: time.Now,
	}
}

// IsPremium reports whether the user may use premium features.
//
// Resolution order: status cache, then the store's subscription status, then
// token freshness. An empty userID is never premium and causes no side
// effects. Store read failures are logged and treated as "no record".
func (g *Gate) IsPremium(ctx context.Context, userID, token string) bool {
	if g == nil || userID == "" {
		return false
	}
	if g.cfg.AllowDevBypass {
		return true
	}
	now := g.nowFn()

	if premium, ok := g.cache.Get(userID, now); ok {
		return premium
	}

	if active, found := g.storeStatus(ctx, userID); found && active {
		g.cache.Set(userID, true, now)
		return true
	}

	premium := TokenFresh(token, g.cfg.TokenSecret, g.cfg.FreshnessWindow, now)
	g.cache.Set(userID, premium, now)
	return premium
}

// storeStatus reads the persisted subscription status. The second return
// value is false when no row exists or the read failed.
func (g *Gate) storeStatus(ctx context.Context, userID string) (active bool, found bool) {
	if g.db == nil {
		return false, false
	}

	var user models.User
	errFind := g.db.WithContext(ctx).
		Select("subscription_status").
		Where("extension_user_id = ?", userID).
		Take(&user).Error
	if errFind != nil {
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			log.WithError(errFind).WithField("user_id", userID).
				Warn("premium gate: subscription lookup failed")
		}
		return false, false
	}
	return user.SubscriptionStatus == models.SubscriptionActive, true
}
