package models

import "time"

// Payment records a successful payment event. Append-only.
type Payment struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;index"`    // Owning user ID.
	User   User   `gorm:"foreignKey:UserID"` // Owning user record.

	Amount      float64 `gorm:"type:decimal(10,2);not null;default:0"` // Payment amount.
	Currency    string  `gorm:"type:varchar(8);not null;default:usd"`  // ISO currency code.
	Status      string  `gorm:"type:varchar(32);not null"`             // Payment status reported by the sender.
	ExternalRef string  `gorm:"type:text"`                             // External payment reference ID.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
