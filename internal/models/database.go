package models

import (
	"fmt"

	"github.com/careerhub/careerhub/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	if err := DB.AutoMigrate(
		&User{},
		&Company{},
		&Position{},
		&CompanyRecruiter{},
		&Application{},
		&ApplicationStatusHistory{},
		&ApplicantNote{},
		&SavedPosition{},
		&Notification{},
		&RefreshToken{},
		&SystemLog{},
		&SystemConfig{},
	); err != nil {
		return err
	}
	return seedSystemConfigs()
}

// seedSystemConfigs creates the default system config rows on first boot.
// Existing rows are never overwritten, so admin changes survive restarts.
func seedSystemConfigs() error {
	defaults := []SystemConfig{
		{Key: "log_retention_days", Value: "30", Type: "int", Group: "system", Label: "System Log Retention Days"},
	}

	for _, cfg := range defaults {
		var count int64
		DB.Model(&SystemConfig{}).Where("`key` = ?", cfg.Key).Count(&count)
		if count == 0 {
			if err := DB.Create(&cfg).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
