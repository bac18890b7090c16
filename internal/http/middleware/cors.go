package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// extensionOriginPrefix matches any origin of the calling browser extension.
const extensionOriginPrefix = "chrome-extension://"

// CORS allows the extension origin pattern plus the configured web origin
// allow-list. Preflight requests are answered generically with 204.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed[origin] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		_, listed := allowed[origin]
		if listed || strings.HasPrefix(origin, extensionOriginPrefix) {
			c.Header("Access-Control-Allow-Origin", origin)
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
