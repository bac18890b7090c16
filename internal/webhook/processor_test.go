package webhook

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/drip-check/drip-check-api/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openWebhookDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := conn.AutoMigrate(&models.User{}, &models.Payment{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func TestHandleSubscribedCreatesActiveUser(t *testing.T) {
	conn := openWebhookDB(t)
	processor := NewProcessor(conn)

	err := processor.Handle(context.Background(), EventUserSubscribed, EventData{
		UserID:         "u1",
		SubscriptionID: "sub_123",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	var user models.User
	if errFind := conn.Where("extension_user_id = ?", "u1").First(&user).Error; errFind != nil {
		t.Fatalf("find user: %v", errFind)
	}
	if user.SubscriptionStatus != models.SubscriptionActive {
		t.Fatalf("expected active status, got %s", user.SubscriptionStatus)
	}
	if user.SubscriptionRef != "sub_123" {
		t.Fatalf("expected subscription ref sub_123, got %s", user.SubscriptionRef)
	}
}

func TestHandleCancelledByEmailOnly(t *testing.T) {
	conn := openWebhookDB(t)
	processor := NewProcessor(conn)

	err := processor.Handle(context.Background(), EventSubscriptionCancelled, EventData{
		Email: "person@example.com",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	var user models.User
	if errFind := conn.Where("email = ?", "person@example.com").First(&user).Error; errFind != nil {
		t.Fatalf("find user: %v", errFind)
	}
	if user.SubscriptionStatus != models.SubscriptionCancelled {
		t.Fatalf("expected cancelled status, got %s", user.SubscriptionStatus)
	}

	var payments int64
	if errCount := conn.Model(&models.Payment{}).Count(&payments).Error; errCount != nil {
		t.Fatalf("count payments: %v", errCount)
	}
	if payments != 0 {
		t.Fatalf("expected no payment rows for a cancellation, got %d", payments)
	}
}

func TestHandleCancelledUpdatesExistingUser(t *testing.T) {
	conn := openWebhookDB(t)
	if errCreate := conn.Create(&models.User{
		ExtensionUserID:    "u1",
		SubscriptionStatus: models.SubscriptionActive,
	}).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}
	processor := NewProcessor(conn)

	if err := processor.Handle(context.Background(), EventSubscriptionCancelled, EventData{UserID: "u1"}); err != nil {
		t.Fatalf("handle: %v", err)
	}

	var user models.User
	if errFind := conn.Where("extension_user_id = ?", "u1").First(&user).Error; errFind != nil {
		t.Fatalf("find user: %v", errFind)
	}
	if user.SubscriptionStatus != models.SubscriptionCancelled {
		t.Fatalf("expected cancelled status, got %s", user.SubscriptionStatus)
	}

	var count int64
	if errCount := conn.Model(&models.User{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count users: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected the existing row to be updated, got %d rows", count)
	}
}

func TestHandlePaymentSucceeded(t *testing.T) {
	conn := openWebhookDB(t)
	processor := NewProcessor(conn)

	err := processor.Handle(context.Background(), EventPaymentSucceeded, EventData{
		UserID:    "u1",
		PaymentID: "pay_987",
		Amount:    4.99,
		Currency:  "eur",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	var user models.User
	if errFind := conn.Where("extension_user_id = ?", "u1").First(&user).Error; errFind != nil {
		t.Fatalf("find user: %v", errFind)
	}
	if user.SubscriptionStatus != models.SubscriptionActive {
		t.Fatalf("expected payment to mark the user active, got %s", user.SubscriptionStatus)
	}

	var payment models.Payment
	if errFind := conn.Where("user_id = ?", user.ID).First(&payment).Error; errFind != nil {
		t.Fatalf("find payment: %v", errFind)
	}
	if payment.Amount != 4.99 || payment.Currency != "eur" {
		t.Fatalf("expected 4.99 eur, got %v %s", payment.Amount, payment.Currency)
	}
	if payment.Status != "succeeded" {
		t.Fatalf("expected status succeeded, got %s", payment.Status)
	}
	if payment.ExternalRef != "pay_987" {
		t.Fatalf("expected external ref pay_987, got %s", payment.ExternalRef)
	}
}

func TestHandleUnknownEventIgnored(t *testing.T) {
	conn := openWebhookDB(t)
	processor := NewProcessor(conn)

	if err := processor.Handle(context.Background(), "user.poked", EventData{UserID: "u1"}); err != nil {
		t.Fatalf("expected unknown event to be ignored, got %v", err)
	}

	var count int64
	if errCount := conn.Model(&models.User{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count users: %v", errCount)
	}
	if count != 0 {
		t.Fatalf("expected no rows for an unknown event, got %d", count)
	}
}

func TestHandleMissingIdentity(t *testing.T) {
	conn := openWebhookDB(t)
	processor := NewProcessor(conn)

	err := processor.Handle(context.Background(), EventUserSubscribed, EventData{})
	if !errors.Is(err, ErrMissingIdentity) {
		t.Fatalf("expected ErrMissingIdentity, got %v", err)
	}
}
