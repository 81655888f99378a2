package services

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/careerhub/careerhub/backend/internal/models"
)

// newAppService wires the application engine against a fresh database.
func newAppService(db *gorm.DB) (*ApplicationService, *MembershipService) {
	notifier := newTestNotifier(db)
	membership := NewMembershipService(db, notifier)
	return NewApplicationService(db, membership, notifier), membership
}

func TestGetAvailableStatuses(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAppService(db)

	cases := []struct {
		current string
		want    []string
	}{
		{models.ApplicationStatusApplied, []string{models.ApplicationStatusReviewing, models.ApplicationStatusRejected}},
		{models.ApplicationStatusReviewing, []string{models.ApplicationStatusInterviewed, models.ApplicationStatusAccepted, models.ApplicationStatusRejected}},
		{models.ApplicationStatusInterviewed, []string{models.ApplicationStatusAccepted, models.ApplicationStatusRejected}},
		{models.ApplicationStatusAccepted, []string{}},
		{models.ApplicationStatusRejected, []string{}},
		{"bogus", []string{}},
	}
	for _, tc := range cases {
		got := svc.GetAvailableStatuses(tc.current)
		if got == nil {
			t.Errorf("GetAvailableStatuses(%q) returned nil, expected empty slice", tc.current)
			continue
		}
		sort.Strings(got)
		want := append([]string{}, tc.want...)
		sort.Strings(want)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("GetAvailableStatuses(%q) = %v, expected %v", tc.current, got, tc.want)
		}
	}
}

func TestIsValidTransition(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAppService(db)

	valid := [][2]string{
		{"applied", "reviewing"},
		{"applied", "rejected"},
		{"reviewing", "interviewed"},
		{"reviewing", "accepted"},
		{"reviewing", "rejected"},
		{"interviewed", "accepted"},
		{"interviewed", "rejected"},
	}
	for _, pair := range valid {
		if !svc.IsValidTransition(pair[0], pair[1]) {
			t.Errorf("%s -> %s should be valid", pair[0], pair[1])
		}
	}

	invalid := [][2]string{
		{"applied", "interviewed"},
		{"applied", "accepted"},
		{"reviewing", "applied"},
		{"accepted", "rejected"},
		{"rejected", "applied"},
		{"interviewed", "reviewing"},
		{"bogus", "applied"},
	}
	for _, pair := range invalid {
		if svc.IsValidTransition(pair[0], pair[1]) {
			t.Errorf("%s -> %s should be invalid", pair[0], pair[1])
		}
	}
}

func TestApply(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAppService(db)

	owner := createTestUser(t, db, "owner@acme.test", RoleRecruiter)
	candidate := createTestUser(t, db, "cand@acme.test", RoleCandidate)
	company := createTestCompany(t, db, "Acme", owner.ID)
	position := createTestPosition(t, db, company.ID, owner.ID, "Backend Engineer")

	ok, msg := svc.Apply(position.ID, candidate.ID, "hire me", "/resumes/1.pdf")
	if !ok {
		t.Fatalf("Apply failed: %s", msg)
	}

	var app models.Application
	if err := db.Where("position_id = ? AND user_id = ?", position.ID, candidate.ID).First(&app).Error; err != nil {
		t.Fatalf("application not created: %v", err)
	}
	if app.Status != models.ApplicationStatusApplied {
		t.Errorf("Status = %q, expected applied", app.Status)
	}
	if app.AppliedAt.IsZero() {
		t.Error("AppliedAt not set")
	}

	// Initial history entry is system-generated.
	var history []models.ApplicationStatusHistory
	db.Where("application_id = ?", app.ID).Find(&history)
	if len(history) != 1 {
		t.Fatalf("history entries = %d, expected 1", len(history))
	}
	if history[0].Status != models.ApplicationStatusApplied {
		t.Errorf("history status = %q, expected applied", history[0].Status)
	}
	if history[0].ChangedBy != nil {
		t.Error("initial history entry should have nil ChangedBy")
	}

	// The company owner hears about the new application.
	if got := countNotifications(t, db, owner.ID, models.NotificationKindApplicationSubmitted); got != 1 {
		t.Errorf("submission notifications to owner = %d, expected 1", got)
	}

	// Applying twice to the same position fails.
	ok, msg = svc.Apply(position.ID, candidate.ID, "", "")
	if ok {
		t.Fatal("duplicate application should fail")
	}
	if !strings.Contains(msg, "already applied") {
		t.Errorf("message = %q", msg)
	}
}

func TestApply_ClosedPosition(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAppService(db)

	owner := createTestUser(t, db, "owner@acme.test", RoleRecruiter)
	candidate := createTestUser(t, db, "cand@acme.test", RoleCandidate)
	company := createTestCompany(t, db, "Acme", owner.ID)
	position := createTestPosition(t, db, company.ID, owner.ID, "Backend Engineer")
	db.Model(position).Update("is_open", false)

	ok, msg := svc.Apply(position.ID, candidate.ID, "", "")
	if ok {
		t.Fatal("applying to a closed position should fail")
	}
	if !strings.Contains(msg, "no longer accepting") {
		t.Errorf("message = %q", msg)
	}
}

func TestUpdateStatus_HappyPath(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAppService(db)

	owner := createTestUser(t, db, "owner@acme.test", RoleRecruiter)
	candidate := createTestUser(t, db, "cand@acme.test", RoleCandidate)
	company := createTestCompany(t, db, "Acme", owner.ID)
	position := createTestPosition(t, db, company.ID, owner.ID, "Backend Engineer")
	svc.Apply(position.ID, candidate.ID, "", "")

	var app models.Application
	db.Where("position_id = ? AND user_id = ?", position.ID, candidate.ID).First(&app)

	steps := []string{
		models.ApplicationStatusReviewing,
		models.ApplicationStatusInterviewed,
		models.ApplicationStatusAccepted,
	}
	for _, status := range steps {
		ok, msg := svc.UpdateStatus(app.ID, status, owner.ID, "moving on")
		if !ok {
			t.Fatalf("UpdateStatus to %s failed: %s", status, msg)
		}
	}

	db.First(&app, app.ID)
	if app.Status != models.ApplicationStatusAccepted {
		t.Errorf("final status = %q, expected accepted", app.Status)
	}

	// History: initial applied entry plus one per transition, in order.
	history, err := svc.GetStatusHistory(app.ID)
	if err != nil {
		t.Fatalf("GetStatusHistory: %v", err)
	}
	wantStatuses := []string{"applied", "reviewing", "interviewed", "accepted"}
	if len(history) != len(wantStatuses) {
		t.Fatalf("history entries = %d, expected %d", len(history), len(wantStatuses))
	}
	for i, want := range wantStatuses {
		if history[i].Status != want {
			t.Errorf("history[%d].Status = %q, expected %q", i, history[i].Status, want)
		}
	}
	for _, entry := range history[1:] {
		if entry.ChangedBy == nil || *entry.ChangedBy != owner.ID {
			t.Error("transition entries should record ChangedBy")
		}
	}

	// The candidate got one notification per transition.
	if got := countNotifications(t, db, candidate.ID, models.NotificationKindApplicationStatus); got != 3 {
		t.Errorf("status notifications = %d, expected 3", got)
	}
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAppService(db)

	owner := createTestUser(t, db, "owner@acme.test", RoleRecruiter)
	candidate := createTestUser(t, db, "cand@acme.test", RoleCandidate)
	company := createTestCompany(t, db, "Acme", owner.ID)
	position := createTestPosition(t, db, company.ID, owner.ID, "Backend Engineer")
	svc.Apply(position.ID, candidate.ID, "", "")

	var app models.Application
	db.Where("position_id = ? AND user_id = ?", position.ID, candidate.ID).First(&app)

	// applied -> accepted skips the graph.
	ok, msg := svc.UpdateStatus(app.ID, models.ApplicationStatusAccepted, owner.ID, "")
	if ok {
		t.Fatal("applied -> accepted should be rejected")
	}
	if !strings.Contains(msg, "applied") || !strings.Contains(msg, "accepted") {
		t.Errorf("message should name both states, got %q", msg)
	}

	// No history entry was appended on failure.
	var count int64
	db.Model(&models.ApplicationStatusHistory{}).Where("application_id = ?", app.ID).Count(&count)
	if count != 1 {
		t.Errorf("history entries = %d, expected 1 after failed transition", count)
	}

	// Terminal states refuse everything.
	svc.UpdateStatus(app.ID, models.ApplicationStatusReviewing, owner.ID, "")
	svc.UpdateStatus(app.ID, models.ApplicationStatusRejected, owner.ID, "")
	ok, _ = svc.UpdateStatus(app.ID, models.ApplicationStatusReviewing, owner.ID, "")
	if ok {
		t.Fatal("rejected is terminal")
	}
}

func TestUpdateStatus_Authorization(t *testing.T) {
	db := setupTestDB(t)
	svc, membership := newAppService(db)

	owner := createTestUser(t, db, "owner@acme.test", RoleRecruiter)
	recruiter := createTestUser(t, db, "rec@acme.test", RoleRecruiter)
	candidate := createTestUser(t, db, "cand@acme.test", RoleCandidate)
	admin := createTestUser(t, db, "admin@acme.test", RoleAdmin)
	rival := createTestUser(t, db, "rival@acme.test", RoleRecruiter)
	company := createTestCompany(t, db, "Acme", owner.ID)
	rivalCo := createTestCompany(t, db, "Rival", rival.ID)
	_ = rivalCo
	approveMember(t, db, company.ID, recruiter.ID)
	position := createTestPosition(t, db, company.ID, owner.ID, "Backend Engineer")
	svc.Apply(position.ID, candidate.ID, "", "")

	var app models.Application
	db.Where("position_id = ? AND user_id = ?", position.ID, candidate.ID).First(&app)

	// The applicant cannot move their own application.
	ok, msg := svc.UpdateStatus(app.ID, models.ApplicationStatusReviewing, candidate.ID, "")
	if ok {
		t.Fatal("applicant should not manage their own application")
	}
	if !strings.Contains(msg, "permission") {
		t.Errorf("message = %q", msg)
	}

	// A recruiter from another company is rejected too.
	if ok, _ := svc.UpdateStatus(app.ID, models.ApplicationStatusReviewing, rival.ID, ""); ok {
		t.Fatal("rival recruiter should not manage the application")
	}

	// Approved recruiters of the company and platform admins may.
	if ok, msg := svc.UpdateStatus(app.ID, models.ApplicationStatusReviewing, recruiter.ID, ""); !ok {
		t.Fatalf("approved recruiter update failed: %s", msg)
	}
	if ok, msg := svc.UpdateStatus(app.ID, models.ApplicationStatusInterviewed, admin.ID, ""); !ok {
		t.Fatalf("admin update failed: %s", msg)
	}

	if can, _ := svc.CanManageApplication(app.ID, recruiter.ID); !can {
		t.Error("recruiter should pass CanManageApplication")
	}
	if can, _ := svc.CanViewApplication(app.ID, candidate.ID); !can {
		t.Error("applicant should pass CanViewApplication")
	}
	if can, _ := svc.CanManageApplication(app.ID, candidate.ID); can {
		t.Error("applicant should fail CanManageApplication")
	}
	if can, _ := svc.CanManagePositionApplications(position.ID, owner.ID); !can {
		t.Error("owner should pass CanManagePositionApplications")
	}
	_ = membership
}

func TestApplicantNotes(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAppService(db)

	owner := createTestUser(t, db, "owner@acme.test", RoleRecruiter)
	recruiter := createTestUser(t, db, "rec@acme.test", RoleRecruiter)
	candidate := createTestUser(t, db, "cand@acme.test", RoleCandidate)
	company := createTestCompany(t, db, "Acme", owner.ID)
	approveMember(t, db, company.ID, recruiter.ID)
	position := createTestPosition(t, db, company.ID, owner.ID, "Backend Engineer")
	svc.Apply(position.ID, candidate.ID, "", "")

	var app models.Application
	db.Where("position_id = ?", position.ID).First(&app)

	if ok, _ := svc.AddApplicantNote(app.ID, candidate.ID, "sneaky"); ok {
		t.Fatal("applicant should not add notes")
	}
	if ok, _ := svc.AddApplicantNote(app.ID, recruiter.ID, ""); ok {
		t.Fatal("empty note should be rejected")
	}
	if ok, msg := svc.AddApplicantNote(app.ID, recruiter.ID, "strong take-home"); !ok {
		t.Fatalf("AddApplicantNote failed: %s", msg)
	}

	notes, err := svc.ListNotes(app.ID)
	if err != nil || len(notes) != 1 {
		t.Fatalf("ListNotes = %d notes, err %v", len(notes), err)
	}

	// The candidate cannot delete interviewer notes.
	if ok, _ := svc.DeleteApplicantNote(notes[0].ID, candidate.ID); ok {
		t.Fatal("applicant should not delete notes")
	}
	// The author can.
	if ok, msg := svc.DeleteApplicantNote(notes[0].ID, recruiter.ID); !ok {
		t.Fatalf("DeleteApplicantNote failed: %s", msg)
	}
}

func TestWithdrawAndDelete(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAppService(db)

	owner := createTestUser(t, db, "owner@acme.test", RoleRecruiter)
	candidate := createTestUser(t, db, "cand@acme.test", RoleCandidate)
	other := createTestUser(t, db, "other@acme.test", RoleCandidate)
	company := createTestCompany(t, db, "Acme", owner.ID)
	position := createTestPosition(t, db, company.ID, owner.ID, "Backend Engineer")

	svc.Apply(position.ID, candidate.ID, "", "")
	svc.Apply(position.ID, other.ID, "", "")

	var app models.Application
	db.Where("position_id = ? AND user_id = ?", position.ID, candidate.ID).First(&app)

	if ok, _ := svc.Withdraw(app.ID, other.ID); ok {
		t.Fatal("users can only withdraw their own application")
	}
	if ok, msg := svc.Withdraw(app.ID, candidate.ID); !ok {
		t.Fatalf("Withdraw failed: %s", msg)
	}

	var count int64
	db.Model(&models.ApplicationStatusHistory{}).Where("application_id = ?", app.ID).Count(&count)
	if count != 0 {
		t.Error("withdraw should remove history entries")
	}

	var otherApp models.Application
	db.Where("position_id = ? AND user_id = ?", position.ID, other.ID).First(&otherApp)

	if ok, _ := svc.Delete(otherApp.ID, other.ID); ok {
		t.Fatal("applicants should not use manager delete")
	}
	if ok, msg := svc.Delete(otherApp.ID, owner.ID); !ok {
		t.Fatalf("Delete failed: %s", msg)
	}
}
