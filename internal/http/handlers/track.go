package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/drip-check/drip-check-api/internal/usage"
	"github.com/gin-gonic/gin"
)

// TrackHandler serves POST /api/track-user.
type TrackHandler struct {
	recorder *usage.Recorder
}

// NewTrackHandler constructs a TrackHandler.
func NewTrackHandler(recorder *usage.Recorder) *TrackHandler {
	return &TrackHandler{recorder: recorder}
}

// trackRequest is the body of POST /api/track-user.
type trackRequest struct {
	UserID    string `json:"userId"`
	IsPremium bool   `json:"isPremium"`
}

// Handle records the tracking call. The endpoint always answers 200 so a
// failed write never breaks the extension client.
func (h *TrackHandler) Handle(c *gin.Context) {
	var req trackRequest
	if errBind := c.ShouldBindJSON(&req); errBind == nil && strings.TrimSpace(req.UserID) != "" {
		h.recorder.Record(context.WithoutCancel(c.Request.Context()), req.UserID, "track_user", map[string]any{
			"premium": req.IsPremium,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
