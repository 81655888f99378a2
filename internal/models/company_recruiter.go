package models

import (
	"time"
)

// Membership status vocabulary. The strings are persisted as-is and returned
// on the API, so they must not change.
const (
	MembershipStatusPending  = "pending" // user asked to join, a manager must respond
	MembershipStatusInvited  = "invited" // a manager invited the user, the user must respond
	MembershipStatusApproved = "approved"
	MembershipStatusRejected = "rejected"
)

// Company role names returned by the membership engine.
const (
	CompanyRoleOwner     = "Owner"
	CompanyRoleRecruiter = "Recruiter"
	CompanyRolePending   = "Pending"
	CompanyRoleNone      = "None"
)

// CompanyRecruiter is the membership row linking a user to a company. At most
// one row exists per (company, user) pair. Remove/leave delete the row
// outright, so a removed user can request to join again later. No DeletedAt
// column: the unique index must free the pair on removal.
type CompanyRecruiter struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	CompanyID     uint     `gorm:"uniqueIndex:idx_company_user;not null" json:"company_id"`
	Company       *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	UserID        uint     `gorm:"uniqueIndex:idx_company_user;not null" json:"user_id"`
	User          *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RoleInCompany string   `gorm:"size:100" json:"role_in_company"`
	IsAdmin       bool     `gorm:"default:false" json:"is_admin"`
	IsApproved    bool     `gorm:"default:false" json:"is_approved"`
	Status        string   `gorm:"size:20;default:pending;index" json:"status"` // pending, invited, approved, rejected

	RequestMessage  string     `gorm:"size:1000" json:"request_message"`
	ResponseMessage string     `gorm:"size:1000" json:"response_message"`
	InvitedBy       *uint      `json:"invited_by"`
	Inviter         *User      `gorm:"foreignKey:InvitedBy" json:"inviter,omitempty"`
	RespondedBy     *uint      `json:"responded_by"`
	RespondedAt     *time.Time `json:"responded_at"`
	JoinedAt        *time.Time `json:"joined_at"`
	AssignedAt      time.Time  `gorm:"autoCreateTime" json:"assigned_at"`
	LastActivity    *time.Time `json:"last_activity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CompanyRecruiter) TableName() string { return "company_recruiters" }
