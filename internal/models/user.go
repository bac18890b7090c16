package models

import "time"

// SubscriptionStatus is the persisted subscription state of a user.
type SubscriptionStatus string

// SubscriptionStatus values stored in users.subscription_status.
const (
	// SubscriptionFree marks a user without a paid subscription.
	SubscriptionFree SubscriptionStatus = "free"
	// SubscriptionActive marks a user with a current paid subscription.
	SubscriptionActive SubscriptionStatus = "active"
	// SubscriptionCancelled marks a user whose subscription was cancelled.
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// User represents an extension end user. Rows are upserted from webhook
// events or tracking calls and never deleted.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	ExtensionUserID string  `gorm:"type:text;not null;uniqueIndex"` // Opaque identifier supplied by the extension.
	Email           *string `gorm:"type:text;index"`                // Email address from payment events, when known.

	SubscriptionStatus SubscriptionStatus `gorm:"type:text;not null;default:free"` // free, active or cancelled.
	SubscriptionRef    string             `gorm:"type:text"`                       // External subscription reference ID.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
