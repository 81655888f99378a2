package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/careerhub/careerhub/backend/internal/models"
)

// setupTestDB opens an isolated in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A pooled second connection would see an empty :memory: database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.CompanyRecruiter{},
		&models.Position{},
		&models.Application{},
		&models.ApplicationStatusHistory{},
		&models.ApplicantNote{},
		&models.SavedPosition{},
		&models.Notification{},
		&models.RefreshToken{},
		&models.SystemLog{},
		&models.SystemConfig{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// newTestNotifier returns a NotificationService that delivers inline, so
// tests can assert notification rows synchronously.
func newTestNotifier(db *gorm.DB) *NotificationService {
	return NewNotificationService(db, nil, nil)
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    email,
		FullName: "Test " + email,
		Role:     role,
		AuthType: "local",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func createTestCompany(t *testing.T, db *gorm.DB, name string, ownerID uint) *models.Company {
	t.Helper()
	company := &models.Company{
		Name:      name,
		CreatedBy: ownerID,
	}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("failed to create company %s: %v", name, err)
	}
	return company
}

func createTestPosition(t *testing.T, db *gorm.DB, companyID, postedBy uint, title string) *models.Position {
	t.Helper()
	position := &models.Position{
		CompanyID:      companyID,
		Title:          title,
		EmploymentType: "full_time",
		IsOpen:         true,
		PostedBy:       postedBy,
	}
	if err := db.Create(position).Error; err != nil {
		t.Fatalf("failed to create position %s: %v", title, err)
	}
	return position
}

func approveMember(t *testing.T, db *gorm.DB, companyID, userID uint) {
	t.Helper()
	row := &models.CompanyRecruiter{
		CompanyID:  companyID,
		UserID:     userID,
		Status:     models.MembershipStatusApproved,
		IsApproved: true,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}
}

func countNotifications(t *testing.T, db *gorm.DB, userID uint, kind string) int64 {
	t.Helper()
	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Count(&count)
	return count
}
