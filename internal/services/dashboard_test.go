package services

import (
	"testing"

	"gorm.io/gorm"

	"github.com/careerhub/careerhub/backend/internal/models"
)

func newDashboardService(db *gorm.DB) (*DashboardService, *ApplicationService, *MembershipService) {
	app, membership := newAppService(db)
	return NewDashboardService(db, membership, app), app, membership
}

func TestCandidateDashboard(t *testing.T) {
	db := setupTestDB(t)
	dash, app, _ := newDashboardService(db)
	owner := createTestUser(t, db, "owner@hub.test", RoleRecruiter)
	alice := createTestUser(t, db, "alice@hub.test", RoleCandidate)
	company := createTestCompany(t, db, "Acme", owner.ID)
	p1 := createTestPosition(t, db, company.ID, owner.ID, "Backend Engineer")
	p2 := createTestPosition(t, db, company.ID, owner.ID, "Frontend Engineer")

	if ok, msg := app.Apply(p1.ID, alice.ID, "", ""); !ok {
		t.Fatalf("apply: %s", msg)
	}
	app.Apply(p2.ID, alice.ID, "", "")

	var a1 models.Application
	db.Where("position_id = ? AND user_id = ?", p1.ID, alice.ID).First(&a1)
	app.UpdateStatus(a1.ID, "reviewing", owner.ID, "")

	positions := newPositionService(db)
	positions.Save(p1.ID, alice.ID)

	result, err := dash.Candidate(alice.ID)
	if err != nil {
		t.Fatalf("Candidate: %v", err)
	}
	if result.Applications != 2 {
		t.Errorf("applications = %d, expected 2", result.Applications)
	}
	if result.ApplicationsByStat["applied"] != 1 || result.ApplicationsByStat["reviewing"] != 1 {
		t.Errorf("by status = %v", result.ApplicationsByStat)
	}
	if result.SavedPositions != 1 {
		t.Errorf("saved = %d", result.SavedPositions)
	}
	// Status change produced one unread alert for alice.
	if result.UnreadAlerts != 1 {
		t.Errorf("unread alerts = %d, expected 1", result.UnreadAlerts)
	}
}

func TestCompanyDashboard(t *testing.T) {
	db := setupTestDB(t)
	dash, app, membership := newDashboardService(db)
	owner := createTestUser(t, db, "owner@hub.test", RoleRecruiter)
	alice := createTestUser(t, db, "alice@hub.test", RoleCandidate)
	bob := createTestUser(t, db, "bob@hub.test", RoleCandidate)
	company := createTestCompany(t, db, "Acme", owner.ID)
	position := createTestPosition(t, db, company.ID, owner.ID, "Backend Engineer")

	app.Apply(position.ID, alice.ID, "", "")
	app.Apply(position.ID, bob.ID, "", "")

	recruiter := createTestUser(t, db, "rec@hub.test", RoleRecruiter)
	approveMember(t, db, company.ID, recruiter.ID)
	membership.RequestToJoin(company.ID, createTestUser(t, db, "pending@hub.test", RoleRecruiter).ID, "")

	if _, err := dash.Company(company.ID, alice.ID); err == nil {
		t.Error("non-manager should not see the company dashboard")
	}

	result, err := dash.Company(company.ID, owner.ID)
	if err != nil {
		t.Fatalf("Company: %v", err)
	}
	if result.OpenPositions != 1 {
		t.Errorf("open positions = %d", result.OpenPositions)
	}
	if result.TotalApplications != 2 {
		t.Errorf("applications = %d, expected 2", result.TotalApplications)
	}
	if result.ApplicationsByStat["applied"] != 2 {
		t.Errorf("by status = %v", result.ApplicationsByStat)
	}
	if result.NewApplicationsWeek != 2 {
		t.Errorf("new this week = %d", result.NewApplicationsWeek)
	}
	if result.TeamSize != 1 {
		t.Errorf("team size = %d, expected 1", result.TeamSize)
	}
	if result.OpenRequests != 1 {
		t.Errorf("open requests = %d, expected 1", result.OpenRequests)
	}
}

func TestAdminDashboard(t *testing.T) {
	db := setupTestDB(t)
	dash, app, _ := newDashboardService(db)
	owner := createTestUser(t, db, "owner@hub.test", RoleRecruiter)
	alice := createTestUser(t, db, "alice@hub.test", RoleCandidate)
	createTestUser(t, db, "admin@hub.test", RoleAdmin)
	company := createTestCompany(t, db, "Acme", owner.ID)
	position := createTestPosition(t, db, company.ID, owner.ID, "Backend Engineer")
	app.Apply(position.ID, alice.ID, "", "")

	result, err := dash.Admin()
	if err != nil {
		t.Fatalf("Admin: %v", err)
	}
	if result.Users != 3 {
		t.Errorf("users = %d, expected 3", result.Users)
	}
	if result.UsersByRole[RoleCandidate] != 1 || result.UsersByRole[RoleRecruiter] != 1 || result.UsersByRole[RoleAdmin] != 1 {
		t.Errorf("by role = %v", result.UsersByRole)
	}
	if result.Companies != 1 || result.Positions != 1 || result.Applications != 1 {
		t.Errorf("companies=%d positions=%d applications=%d",
			result.Companies, result.Positions, result.Applications)
	}
}
