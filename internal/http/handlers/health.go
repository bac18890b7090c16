package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ServiceName identifies this service in health responses.
const ServiceName = "drip-check-api"

// HealthHandler serves GET /health.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Handle reports liveness. The store state is included as a supplemental
// field but never changes the 200 status.
func (h *HealthHandler) Handle(c *gin.Context) {
	database := "ok"
	if h.db == nil {
		database = "unavailable"
	} else if sqlDB, errDB := h.db.DB(); errDB != nil {
		database = "unavailable"
	} else if errPing := sqlDB.PingContext(c.Request.Context()); errPing != nil {
		database = "unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  ServiceName,
		"database": database,
	})
}
