package models

import (
	"time"

	"gorm.io/datatypes"
)

// UsageLog records a single user action with free-form metadata. Append-only;
// write failures are swallowed by the recorder.
type UsageLog struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;index"`    // Owning user ID.
	User   User   `gorm:"foreignKey:UserID"` // Owning user record.

	Action   string         `gorm:"type:varchar(64);not null"` // Action tag, e.g. "humanize".
	Metadata datatypes.JSON `gorm:"type:jsonb"`                // Free-form metadata (lengths, score, premium flag).

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
