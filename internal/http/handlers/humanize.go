package handlers

import (
	"context"
	"net/http"

	"github.com/drip-check/drip-check-api/internal/http/middleware"
	"github.com/drip-check/drip-check-api/internal/rewrite"
	"github.com/drip-check/drip-check-api/internal/usage"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// HumanizeHandler serves POST /api/humanize.
type HumanizeHandler struct {
	rewriter *rewrite.Service
	recorder *usage.Recorder
}

// NewHumanizeHandler constructs a HumanizeHandler.
func NewHumanizeHandler(rewriter *rewrite.Service, recorder *usage.Recorder) *HumanizeHandler {
	return &HumanizeHandler{rewriter: rewriter, recorder: recorder}
}

// Handle rewrites the request text through the generation provider and
// records usage best-effort. Provider failures surface as a generic 500.
func (h *HumanizeHandler) Handle(c *gin.Context) {
	req, ok := middleware.HumanizeRequestFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "internal error",
		})
		return
	}

	result, errRewrite := h.rewriter.Rewrite(c.Request.Context(), req.Text, int(req.CurrentScore))
	if errRewrite != nil {
		log.WithError(errRewrite).WithField("user_id", req.UserID).
			Error("humanize: rewrite failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to humanize text",
		})
		return
	}

	h.recorder.Record(context.WithoutCancel(c.Request.Context()), req.UserID, "humanize", map[string]any{
		"input_length":  len(req.Text),
		"output_length": len(result.Text),
		"score":         req.CurrentScore,
		"premium":       true,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"humanizedText": result.Text,
		"usage": gin.H{
			"inputTokens":  result.InputTokens,
			"outputTokens": result.OutputTokens,
			"totalTokens":  result.TotalTokens(),
		},
	})
}
