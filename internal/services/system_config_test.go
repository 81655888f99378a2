package services

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/careerhub/careerhub/backend/internal/models"
)

func TestSystemConfigSetAndGet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSystemConfigService(db)

	if err := svc.Set("maintenance_banner", "upgrading tonight"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := svc.Get("maintenance_banner")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "upgrading tonight" {
		t.Errorf("value = %q", value)
	}

	// Set on an existing key updates in place, no duplicate row.
	if err := svc.Set("maintenance_banner", "done"); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}
	value, _ = svc.Get("maintenance_banner")
	if value != "done" {
		t.Errorf("value after update = %q", value)
	}
	var count int64
	db.Model(&models.SystemConfig{}).Where("`key` = ?", "maintenance_banner").Count(&count)
	if count != 1 {
		t.Errorf("row count = %d, expected 1", count)
	}
}

func TestSystemConfigGetMissingKey(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSystemConfigService(db)

	if _, err := svc.Get("no_such_key"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, expected ErrRecordNotFound", err)
	}
	if got := svc.GetWithDefault("no_such_key", "fallback"); got != "fallback" {
		t.Errorf("GetWithDefault = %q", got)
	}
}

func TestSystemConfigGetByGroup(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSystemConfigService(db)

	rows := []models.SystemConfig{
		{Key: "log_retention_days", Value: "30", Group: "system"},
		{Key: "session_idle_minutes", Value: "60", Group: "system"},
		{Key: "smtp_host", Value: "mail.local", Group: "email"},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	system, err := svc.GetByGroup("system")
	if err != nil {
		t.Fatalf("GetByGroup failed: %v", err)
	}
	if len(system) != 2 {
		t.Errorf("len(system) = %d, expected 2", len(system))
	}
	for _, cfg := range system {
		if cfg.Group != "system" {
			t.Errorf("row %q in wrong group %q", cfg.Key, cfg.Group)
		}
	}
}
