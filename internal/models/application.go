package models

import (
	"time"

	"gorm.io/gorm"
)

// Application status vocabulary. Persisted and serialized as lowercase
// strings; the transition graph over them lives in the application service.
const (
	ApplicationStatusApplied     = "applied"
	ApplicationStatusReviewing   = "reviewing"
	ApplicationStatusInterviewed = "interviewed"
	ApplicationStatusAccepted    = "accepted"
	ApplicationStatusRejected    = "rejected"
)

// Application is a candidate's application to a position. A user may apply to
// a position at most once.
type Application struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PositionID uint      `gorm:"uniqueIndex:idx_position_user;not null" json:"position_id"`
	Position   *Position `gorm:"foreignKey:PositionID" json:"position,omitempty"`
	UserID     uint      `gorm:"uniqueIndex:idx_position_user;not null" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Status      string    `gorm:"size:20;default:applied;index" json:"status"`
	AppliedAt   time.Time `gorm:"index" json:"applied_at"`
	CoverLetter string    `gorm:"type:text" json:"cover_letter"`
	ResumePath  string    `gorm:"size:500" json:"resume_path"`

	// StatusHistory is append-only; Status always equals the status of the
	// most recently appended entry.
	StatusHistory []ApplicationStatusHistory `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"status_history,omitempty"`
	Notes         []ApplicantNote            `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"notes,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ApplicationStatusHistory records one past status change. Rows are never
// updated after creation.
type ApplicationStatusHistory struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID uint      `gorm:"index;not null" json:"application_id"`
	Status        string    `gorm:"size:20;not null" json:"status"`
	ChangedAt     time.Time `json:"changed_at"`
	ChangedBy     *uint     `json:"changed_by"` // nil means system-generated
	Changer       *User     `gorm:"foreignKey:ChangedBy" json:"changer,omitempty"`
	Notes         string    `gorm:"size:1000" json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// ApplicantNote is a free-text interviewer note on an application. Notes are
// appended or deleted, never edited.
type ApplicantNote struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ApplicationID uint           `gorm:"index;not null" json:"application_id"`
	InterviewerID uint           `gorm:"not null" json:"interviewer_id"`
	Interviewer   *User          `gorm:"foreignKey:InterviewerID" json:"interviewer,omitempty"`
	Note          string         `gorm:"type:text;not null" json:"note"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Application) TableName() string              { return "applications" }
func (ApplicationStatusHistory) TableName() string { return "application_status_histories" }
func (ApplicantNote) TableName() string            { return "applicant_notes" }
