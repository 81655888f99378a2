package services

import (
	"context"
	"testing"

	"github.com/careerhub/careerhub/backend/internal/models"
)

func TestDeliver_CreatesRowsAndPublishes(t *testing.T) {
	db := setupTestDB(t)
	hub := NewPresenceHub()
	svc := NewNotificationService(db, hub, nil)

	alice := createTestUser(t, db, "alice@hub.test", RoleCandidate)
	bob := createTestUser(t, db, "bob@hub.test", RoleCandidate)

	events := hub.Subscribe("client-1", alice.ID)

	task := &NotificationTask{
		Kind:    models.NotificationKindCompanyInvitation,
		UserIDs: []uint{alice.ID, bob.ID},
		Title:   "Invitation",
		Body:    "You have been invited.",
		Payload: map[string]interface{}{"company_id": uint(7)},
	}
	if err := svc.Deliver(context.Background(), task); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	var total int64
	db.Model(&models.Notification{}).Count(&total)
	if total != 2 {
		t.Errorf("notification rows = %d, expected 2", total)
	}

	select {
	case event := <-events:
		if event.Kind != models.NotificationKindCompanyInvitation {
			t.Errorf("event kind = %q", event.Kind)
		}
	default:
		t.Error("subscribed client did not receive the event")
	}
}

func TestDispatch_NilQueueDeliversInline(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotifier(db)
	alice := createTestUser(t, db, "alice@hub.test", RoleCandidate)

	svc.Dispatch(&NotificationTask{
		Kind:    models.NotificationKindNewTeamMember,
		UserIDs: []uint{alice.ID},
		Title:   "t",
		Body:    "b",
	})

	if got := countNotifications(t, db, alice.ID, models.NotificationKindNewTeamMember); got != 1 {
		t.Errorf("rows = %d, expected 1", got)
	}

	// Empty dispatches are no-ops, not errors.
	svc.Dispatch(nil)
	svc.Dispatch(&NotificationTask{Kind: "x"})
}

func TestNotificationList(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotifier(db)
	alice := createTestUser(t, db, "alice@hub.test", RoleCandidate)
	bob := createTestUser(t, db, "bob@hub.test", RoleCandidate)

	for i := 0; i < 3; i++ {
		svc.Dispatch(&NotificationTask{
			Kind:    models.NotificationKindApplicationStatus,
			UserIDs: []uint{alice.ID},
			Title:   "update",
		})
	}
	svc.Dispatch(&NotificationTask{
		Kind:    models.NotificationKindCompanyInvitation,
		UserIDs: []uint{alice.ID, bob.ID},
		Title:   "invite",
	})

	result, err := svc.List(alice.ID, &NotificationListRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Total != 4 {
		t.Errorf("Total = %d, expected 4", result.Total)
	}
	if result.Unread != 4 {
		t.Errorf("Unread = %d, expected 4", result.Unread)
	}

	// Kind filter.
	result, _ = svc.List(alice.ID, &NotificationListRequest{Kind: models.NotificationKindCompanyInvitation})
	if result.Total != 1 {
		t.Errorf("kind-filtered Total = %d, expected 1", result.Total)
	}

	// Bob only sees his own.
	result, _ = svc.List(bob.ID, &NotificationListRequest{})
	if result.Total != 1 {
		t.Errorf("bob Total = %d, expected 1", result.Total)
	}
}

func TestMarkRead(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotifier(db)
	alice := createTestUser(t, db, "alice@hub.test", RoleCandidate)
	bob := createTestUser(t, db, "bob@hub.test", RoleCandidate)

	svc.Dispatch(&NotificationTask{
		Kind:    models.NotificationKindApplicationStatus,
		UserIDs: []uint{alice.ID},
		Title:   "update",
	})
	svc.Dispatch(&NotificationTask{
		Kind:    models.NotificationKindApplicationStatus,
		UserIDs: []uint{alice.ID},
		Title:   "another",
	})

	var row models.Notification
	db.Where("user_id = ?", alice.ID).First(&row)

	// Users cannot mark someone else's notification.
	if err := svc.MarkRead(row.ID, bob.ID); err == nil {
		t.Error("MarkRead with wrong owner should fail")
	}

	if err := svc.MarkRead(row.ID, alice.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if got := svc.UnreadCount(alice.ID); got != 1 {
		t.Errorf("UnreadCount = %d, expected 1", got)
	}

	marked, err := svc.MarkAllRead(alice.ID)
	if err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if marked != 1 {
		t.Errorf("MarkAllRead = %d, expected 1", marked)
	}
	if got := svc.UnreadCount(alice.ID); got != 0 {
		t.Errorf("UnreadCount after MarkAllRead = %d", got)
	}
}
