package usage

import (
	"context"
	"fmt"
	"testing"

	"github.com/drip-check/drip-check-api/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openRecorderDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := conn.AutoMigrate(&models.User{}, &models.UsageLog{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func TestRecordCreatesUserAndLog(t *testing.T) {
	conn := openRecorderDB(t)
	recorder := NewRecorder(conn)

	recorder.Record(context.Background(), "u1", "humanize", map[string]any{
		"input_length": 120,
		"score":        85,
	})

	var user models.User
	if errFind := conn.Where("extension_user_id = ?", "u1").First(&user).Error; errFind != nil {
		t.Fatalf("expected user row to be created: %v", errFind)
	}

	var logs []models.UsageLog
	if errFind := conn.Where("user_id = ?", user.ID).Find(&logs).Error; errFind != nil {
		t.Fatalf("find logs: %v", errFind)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 usage log, got %d", len(logs))
	}
	if logs[0].Action != "humanize" {
		t.Fatalf("expected action humanize, got %s", logs[0].Action)
	}
	if len(logs[0].Metadata) == 0 {
		t.Fatalf("expected metadata to be recorded")
	}
}

func TestRecordReusesExistingUser(t *testing.T) {
	conn := openRecorderDB(t)
	if errCreate := conn.Create(&models.User{ExtensionUserID: "u1"}).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}
	recorder := NewRecorder(conn)

	recorder.Record(context.Background(), "u1", "track_user", nil)
	recorder.Record(context.Background(), "u1", "track_user", nil)

	var count int64
	if errCount := conn.Model(&models.User{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count users: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected a single user row, got %d", count)
	}
	if errCount := conn.Model(&models.UsageLog{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count logs: %v", errCount)
	}
	if count != 2 {
		t.Fatalf("expected 2 usage logs, got %d", count)
	}
}

func TestRecordIgnoresEmptyIdentity(t *testing.T) {
	conn := openRecorderDB(t)
	recorder := NewRecorder(conn)

	recorder.Record(context.Background(), "", "humanize", nil)
	recorder.Record(context.Background(), "u1", "", nil)

	var count int64
	if errCount := conn.Model(&models.UsageLog{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count logs: %v", errCount)
	}
	if count != 0 {
		t.Fatalf("expected no usage logs, got %d", count)
	}
}
