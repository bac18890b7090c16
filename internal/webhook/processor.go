package webhook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/drip-check/drip-check-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Subscription lifecycle event names sent by the payment webhook.
const (
	EventUserSubscribed        = "user.subscribed"
	EventTrialStarted          = "trial.started"
	EventSubscriptionCreated   = "subscription.created"
	EventSubscriptionUpdated   = "subscription.updated"
	EventSubscriptionCancelled = "subscription.cancelled"
	EventPaymentSucceeded      = "payment.succeeded"
)

// ErrMissingIdentity indicates an event that carries neither a user ID nor
// an email address.
var ErrMissingIdentity = errors.New("webhook: event data has no user identity")

// EventData is the payload attached to a webhook event. Fields not relevant
// to a given event are left empty by the sender.
type EventData struct {
	UserID         string  `json:"userId"`
	Email          string  `json:"email"`
	SubscriptionID string  `json:"subscriptionId"`
	PaymentID      string  `json:"paymentId"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
}

// Processor maps subscription lifecycle events to idempotent user upserts
// and append-only payment rows.
type Processor struct {
	db *gorm.DB
}

// NewProcessor constructs a Processor backed by GORM.
func NewProcessor(db *gorm.DB) *Processor {
	return &Processor{db: db}
}

// Handle applies one webhook event. Unknown event names are ignored without
// error; persistence failures propagate so the sender retries delivery.
func (p *Processor) Handle(ctx context.Context, event string, data EventData) error {
	if p == nil || p.db == nil {
		return fmt.Errorf("webhook: processor not initialized")
	}

	switch strings.TrimSpace(event) {
	case EventUserSubscribed, EventTrialStarted, EventSubscriptionCreated, EventSubscriptionUpdated:
		_, errUpsert := p.upsertUser(ctx, data, models.SubscriptionActive)
		return errUpsert
	case EventSubscriptionCancelled:
		_, errUpsert := p.upsertUser(ctx, data, models.SubscriptionCancelled)
		return errUpsert
	case EventPaymentSucceeded:
		return p.recordPayment(ctx, data)
	default:
		log.WithField("event", event).Debug("webhook: ignoring unknown event")
		return nil
	}
}

// upsertUser finds the user by extension ID or email and applies the new
// subscription state, creating the row when absent. Users are never deleted.
func (p *Processor) upsertUser(ctx context.Context, data EventData, status models.SubscriptionStatus) (*models.User, error) {
	userID := strings.TrimSpace(data.UserID)
	email := strings.TrimSpace(data.Email)
	if userID == "" && email == "" {
		return nil, ErrMissingIdentity
	}

	query := p.db.WithContext(ctx)
	if userID != "" {
		query = query.Where("extension_user_id = ?", userID)
	} else {
		query = query.Where("email = ?", email)
	}

	var user models.User
	errFind := query.First(&user).Error
	if errFind != nil && !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("webhook: find user: %w", errFind)
	}

	now := time.Now().UTC()
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		// The extension ID is the canonical identity; events that only
		// carry an email fall back to it as the opaque identifier.
		ident := userID
		if ident == "" {
			ident = email
		}
		user = models.User{
			ExtensionUserID:    ident,
			SubscriptionStatus: status,
			SubscriptionRef:    strings.TrimSpace(data.SubscriptionID),
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if email != "" {
			user.Email = &email
		}
		if errCreate := p.db.WithContext(ctx).Create(&user).Error; errCreate != nil {
			return nil, fmt.Errorf("webhook: create user: %w", errCreate)
		}
		return &user, nil
	}

	updates := map[string]any{
		"subscription_status": status,
		"updated_at":          now,
	}
	if ref := strings.TrimSpace(data.SubscriptionID); ref != "" {
		updates["subscription_ref"] = ref
	}
	if email != "" {
		updates["email"] = email
	}
	if errUpdate := p.db.WithContext(ctx).Model(&user).Updates(updates).Error; errUpdate != nil {
		return nil, fmt.Errorf("webhook: update user: %w", errUpdate)
	}
	user.SubscriptionStatus = status
	return &user, nil
}

// recordPayment marks the user active and appends a payment row.
func (p *Processor) recordPayment(ctx context.Context, data EventData) error {
	user, errUpsert := p.upsertUser(ctx, data, models.SubscriptionActive)
	if errUpsert != nil {
		return errUpsert
	}

	currency := strings.TrimSpace(data.Currency)
	if currency == "" {
		currency = "usd"
	}
	row := models.Payment{
		UserID:      user.ID,
		Amount:      data.Amount,
		Currency:    currency,
		Status:      "succeeded",
		ExternalRef: strings.TrimSpace(data.PaymentID),
		CreatedAt:   time.Now().UTC(),
	}
	if errCreate := p.db.WithContext(ctx).Create(&row).Error; errCreate != nil {
		return fmt.Errorf("webhook: create payment: %w", errCreate)
	}
	return nil
}
