package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a platform account: candidate, recruiter or admin.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string         `gorm:"size:255" json:"-"` // Hashed password, empty for LDAP users
	FullName  string         `gorm:"size:200" json:"full_name"`
	Avatar    string         `gorm:"size:500" json:"avatar"`
	Headline  string         `gorm:"size:255" json:"headline"`
	Location  string         `gorm:"size:200" json:"location"`
	Phone     string         `gorm:"size:50" json:"phone"`
	Role      string         `gorm:"size:50;default:candidate" json:"role"`  // admin, recruiter, candidate
	AuthType  string         `gorm:"size:20;default:local" json:"auth_type"` // local, ldap
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Company represents an employer organization on the board.
type Company struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Industry    string         `gorm:"size:100" json:"industry"`
	Location    string         `gorm:"size:200" json:"location"`
	Website     string         `gorm:"size:500" json:"website"`
	LogoPath    string         `gorm:"size:500" json:"logo_path"`
	CreatedBy   uint           `gorm:"index;not null" json:"created_by"` // company owner
	Owner       *User          `gorm:"foreignKey:CreatedBy" json:"owner,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Position represents a job opening posted under a company.
type Position struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CompanyID      uint           `gorm:"index;not null" json:"company_id"`
	Company        *Company       `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Title          string         `gorm:"size:200;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Requirements   string         `gorm:"type:text" json:"requirements"`
	Location       string         `gorm:"size:200" json:"location"`
	EmploymentType string         `gorm:"size:50;default:full_time" json:"employment_type"` // full_time, part_time, contract, internship
	SalaryMin      *int           `json:"salary_min"`
	SalaryMax      *int           `json:"salary_max"`
	IsOpen         bool           `gorm:"default:true" json:"is_open"`
	PostedBy       uint           `json:"posted_by"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// SavedPosition is a candidate's bookmark on a position.
type SavedPosition struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex:idx_saved_user_position;not null" json:"user_id"`
	PositionID uint      `gorm:"uniqueIndex:idx_saved_user_position;not null" json:"position_id"`
	Position   *Position `gorm:"foreignKey:PositionID" json:"position,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SystemLog represents a system operation log
type SystemLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     string    `gorm:"size:20;index" json:"level"` // info, warning, error
	Module    string    `gorm:"size:100;index" json:"module"`
	Action    string    `gorm:"size:200;index" json:"action"`
	Message   string    `gorm:"type:text" json:"message"`
	UserID    *uint     `json:"user_id"`
	IP        string    `gorm:"size:50" json:"ip"`
	UserAgent string    `gorm:"size:500" json:"user_agent"`
	Extra     string    `gorm:"type:text" json:"extra"` // JSON extra data
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// SystemConfig represents system-wide configuration (stored in database)
type SystemConfig struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	Type      string    `gorm:"size:20;default:string" json:"type"` // string, int, bool, json
	Group     string    `gorm:"size:50;index" json:"group"`         // system, notification, etc.
	Label     string    `gorm:"size:200" json:"label"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (User) TableName() string          { return "users" }
func (Company) TableName() string       { return "companies" }
func (Position) TableName() string      { return "positions" }
func (SavedPosition) TableName() string { return "saved_positions" }
func (SystemLog) TableName() string     { return "system_logs" }
func (SystemConfig) TableName() string  { return "system_configs" }
