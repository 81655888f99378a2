package models

import (
	"time"
)

// Notification kinds dispatched by the engines.
const (
	NotificationKindApplicationSubmitted = "job-application-submitted"
	NotificationKindApplicationStatus    = "job-application-status-changed"
	NotificationKindCompanyInvitation    = "company-invitation"
	NotificationKindNewTeamMember        = "new-team-member"
	NotificationKindCompanyUpdated       = "company-profile-updated"
	NotificationKindMembershipResponse   = "membership-request-responded"
)

// Notification is an in-app notification row for one user. Delivery is
// fire-and-forget: engines enqueue these after their own transaction commits
// and never fail on dispatch errors.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Kind      string    `gorm:"size:50;index;not null" json:"kind"`
	Title     string    `gorm:"size:255" json:"title"`
	Body      string    `gorm:"size:2000" json:"body"`
	Payload   string    `gorm:"type:text" json:"payload"` // JSON context (ids of company/position/application)
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Notification) TableName() string { return "notifications" }
