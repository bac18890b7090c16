package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/drip-check/drip-check-api/internal/premium"
	"github.com/drip-check/drip-check-api/internal/ratelimit"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// humanizeRequestKey stores the parsed request in the gin context.
const humanizeRequestKey = "humanizeRequest"

// HumanizeRequest is the body of POST /api/humanize.
type HumanizeRequest struct {
	Text         string  `json:"text"`
	UserID       string  `json:"userId"`
	CurrentScore float64 `json:"currentScore"`
	PremiumToken string  `json:"premiumToken"`
}

// BindHumanize parses and validates the humanize request body. Missing text
// or userId ends the request with 400 before any gate or quota work runs.
func BindHumanize() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req HumanizeRequest
		if errBind := c.ShouldBindJSON(&req); errBind != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "invalid request body",
			})
			return
		}
		if strings.TrimSpace(req.Text) == "" || strings.TrimSpace(req.UserID) == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "text and userId are required",
			})
			return
		}
		c.Set(humanizeRequestKey, req)
		c.Next()
	}
}

// HumanizeRequestFromContext returns the request bound by BindHumanize.
func HumanizeRequestFromContext(c *gin.Context) (HumanizeRequest, bool) {
	value, exists := c.Get(humanizeRequestKey)
	if !exists {
		return HumanizeRequest{}, false
	}
	req, ok := value.(HumanizeRequest)
	return req, ok
}

// PremiumGate rejects non-premium users with 403.
func PremiumGate(gate *premium.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := HumanizeRequestFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "internal error",
			})
			return
		}
		if !gate.IsPremium(c.Request.Context(), req.UserID, req.PremiumToken) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Premium subscription required",
			})
			return
		}
		c.Next()
	}
}

// DailyQuota consumes one unit of the user's daily quota and rejects with
// 429 once the limit is reached. Limiter state is never a source of
// user-visible errors; on failure the request is allowed through.
func DailyQuota(limiter ratelimit.Limiter, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := HumanizeRequestFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "internal error",
			})
			return
		}
		result, errAllow := limiter.Allow(c.Request.Context(), req.UserID, limit, time.Now())
		if errAllow != nil {
			log.WithError(errAllow).Warn("quota middleware: limiter check failed")
			c.Next()
			return
		}
		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Daily limit reached. Try again tomorrow.",
			})
			return
		}
		c.Next()
	}
}
