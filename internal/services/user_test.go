package services

import (
	"testing"

	"github.com/careerhub/careerhub/backend/internal/models"
	"github.com/careerhub/careerhub/backend/internal/utils"
)

func TestUserList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	createTestUser(t, db, "alice@hub.test", RoleCandidate)
	createTestUser(t, db, "bob@hub.test", RoleCandidate)
	rec := createTestUser(t, db, "rec@hub.test", RoleRecruiter)
	db.Model(rec).Update("is_active", false)

	resp, err := svc.List(&UserListRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("total = %d, expected 3", resp.Total)
	}

	resp, _ = svc.List(&UserListRequest{Role: RoleCandidate})
	if resp.Total != 2 {
		t.Errorf("role filter = %d", resp.Total)
	}

	resp, _ = svc.List(&UserListRequest{Search: "alice"})
	if resp.Total != 1 {
		t.Errorf("search = %d", resp.Total)
	}

	active := true
	resp, _ = svc.List(&UserListRequest{Active: &active})
	if resp.Total != 2 {
		t.Errorf("active filter = %d", resp.Total)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	alice := createTestUser(t, db, "alice@hub.test", RoleCandidate)

	name := "Alice Liddell"
	headline := "Backend developer"
	if _, err := svc.UpdateProfile(alice.ID, &ProfileUpdateRequest{FullName: &name, Headline: &headline}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	var reloaded models.User
	db.First(&reloaded, alice.ID)
	if reloaded.FullName != name || reloaded.Headline != headline {
		t.Errorf("profile = %q / %q", reloaded.FullName, reloaded.Headline)
	}

	// Empty request leaves the row untouched.
	if _, err := svc.UpdateProfile(alice.ID, &ProfileUpdateRequest{}); err != nil {
		t.Errorf("empty update: %v", err)
	}
}

func TestUpdateRoleAndActive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	admin := createTestUser(t, db, "admin@hub.test", RoleAdmin)
	alice := createTestUser(t, db, "alice@hub.test", RoleCandidate)

	if err := svc.UpdateRole(alice.ID, "superuser", admin.ID); err == nil {
		t.Error("invalid role should be rejected")
	}
	if err := svc.UpdateRole(admin.ID, RoleCandidate, admin.ID); err == nil {
		t.Error("admin self-demotion should be rejected")
	}
	if err := svc.UpdateRole(999, RoleRecruiter, admin.ID); err == nil {
		t.Error("missing user should fail")
	}
	if err := svc.UpdateRole(alice.ID, RoleRecruiter, admin.ID); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}

	var reloaded models.User
	db.First(&reloaded, alice.ID)
	if reloaded.Role != RoleRecruiter {
		t.Errorf("role = %q", reloaded.Role)
	}

	if err := svc.SetActive(admin.ID, false, admin.ID); err == nil {
		t.Error("admin self-disable should be rejected")
	}
	if err := svc.SetActive(alice.ID, false, admin.ID); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	db.First(&reloaded, alice.ID)
	if reloaded.IsActive {
		t.Error("account should be disabled")
	}
}

func TestResetPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	alice := createTestUser(t, db, "alice@hub.test", RoleCandidate)

	if err := svc.ResetPassword(alice.ID, "short"); err == nil {
		t.Error("short password should be rejected")
	}
	if err := svc.ResetPassword(alice.ID, "newpass1"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	var reloaded models.User
	db.First(&reloaded, alice.ID)
	if !utils.CheckPassword("newpass1", reloaded.Password) {
		t.Error("new password does not verify")
	}
}

func TestUserDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	admin := createTestUser(t, db, "admin@hub.test", RoleAdmin)
	owner := createTestUser(t, db, "owner@hub.test", RoleRecruiter)
	alice := createTestUser(t, db, "alice@hub.test", RoleCandidate)
	company := createTestCompany(t, db, "Acme", owner.ID)
	approveMember(t, db, company.ID, alice.ID)

	if err := svc.Delete(admin.ID, admin.ID); err == nil {
		t.Error("self-deletion should be rejected")
	}
	if err := svc.Delete(owner.ID, admin.ID); err == nil {
		t.Error("company owner deletion should be blocked")
	}

	if err := svc.Delete(alice.ID, admin.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := db.First(&models.User{}, alice.ID).Error; err == nil {
		t.Error("deleted user should not load")
	}
	// Membership rows are cleaned up with the account.
	var rows int64
	db.Model(&models.CompanyRecruiter{}).Where("user_id = ?", alice.ID).Count(&rows)
	if rows != 0 {
		t.Errorf("membership rows remaining = %d", rows)
	}
}
