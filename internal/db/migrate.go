package db

import (
	"fmt"

	"github.com/drip-check/drip-check-api/internal/models"
	"gorm.io/gorm"
)

// Migrate applies the schema idempotently at startup.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errAutoMigrate := conn.AutoMigrate(
		&models.User{},
		&models.Payment{},
		&models.UsageLog{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}
	return nil
}
