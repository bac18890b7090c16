package handlers

import (
	"net/http"

	"github.com/drip-check/drip-check-api/internal/webhook"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// WebhookHandler serves POST /webhook/extensionpay.
type WebhookHandler struct {
	processor *webhook.Processor
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(processor *webhook.Processor) *WebhookHandler {
	return &WebhookHandler{processor: processor}
}

// webhookRequest is the envelope sent by the payment webhook.
type webhookRequest struct {
	Event string            `json:"event"`
	Data  webhook.EventData `json:"data"`
}

// Handle applies the event. Handled and unhandled events both answer 200 so
// the sender stops redelivering; only processing errors answer 500, which
// makes the sender retry.
func (h *WebhookHandler) Handle(c *gin.Context) {
	var req webhookRequest
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook body"})
		return
	}

	if errHandle := h.processor.Handle(c.Request.Context(), req.Event, req.Data); errHandle != nil {
		log.WithError(errHandle).WithField("event", req.Event).
			Error("webhook: processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
