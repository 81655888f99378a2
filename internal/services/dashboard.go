package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/careerhub/careerhub/backend/internal/models"
)

// DashboardService aggregates the per-role overview numbers shown on landing
// pages. Read-only; all heavy lifting is COUNT queries.
type DashboardService struct {
	db          *gorm.DB
	membership  *MembershipService
	application *ApplicationService
}

func NewDashboardService(db *gorm.DB, membership *MembershipService, application *ApplicationService) *DashboardService {
	return &DashboardService{db: db, membership: membership, application: application}
}

type CandidateDashboard struct {
	Applications       int64            `json:"applications"`
	ApplicationsByStat map[string]int64 `json:"applications_by_status"`
	SavedPositions     int64            `json:"saved_positions"`
	UnreadAlerts       int64            `json:"unread_alerts"`
}

type CompanyDashboard struct {
	CompanyID           uint             `json:"company_id"`
	OpenPositions       int64            `json:"open_positions"`
	TotalApplications   int64            `json:"total_applications"`
	ApplicationsByStat  map[string]int64 `json:"applications_by_status"`
	NewApplicationsWeek int64            `json:"new_applications_week"`
	TeamSize            int64            `json:"team_size"`
	OpenRequests        int64            `json:"open_requests"`
}

type AdminDashboard struct {
	Users        int64            `json:"users"`
	UsersByRole  map[string]int64 `json:"users_by_role"`
	Companies    int64            `json:"companies"`
	Positions    int64            `json:"positions"`
	Applications int64            `json:"applications"`
}

// Candidate summarizes a candidate's activity.
func (s *DashboardService) Candidate(userID uint) (*CandidateDashboard, error) {
	dash := &CandidateDashboard{
		ApplicationsByStat: make(map[string]int64),
	}

	if err := s.db.Model(&models.Application{}).
		Where("user_id = ?", userID).
		Count(&dash.Applications).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := s.db.Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		dash.ApplicationsByStat[row.Status] = row.Count
	}

	s.db.Model(&models.SavedPosition{}).Where("user_id = ?", userID).Count(&dash.SavedPositions)
	s.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&dash.UnreadAlerts)

	return dash, nil
}

// Company summarizes one company's recruiting activity. Caller must be a
// manager of the company.
func (s *DashboardService) Company(companyID, userID uint) (*CompanyDashboard, error) {
	if !s.membership.IsCompanyManager(companyID, userID) {
		return nil, errors.New("you do not have permission to view this company's dashboard")
	}

	dash := &CompanyDashboard{
		CompanyID:          companyID,
		ApplicationsByStat: make(map[string]int64),
	}

	s.db.Model(&models.Position{}).
		Where("company_id = ? AND is_open = ?", companyID, true).
		Count(&dash.OpenPositions)

	appQuery := s.db.Model(&models.Application{}).
		Joins("JOIN positions ON positions.id = applications.position_id").
		Where("positions.company_id = ?", companyID)
	if err := appQuery.Count(&dash.TotalApplications).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := s.db.Model(&models.Application{}).
		Select("applications.status AS status, COUNT(*) AS count").
		Joins("JOIN positions ON positions.id = applications.position_id").
		Where("positions.company_id = ?", companyID).
		Group("applications.status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		dash.ApplicationsByStat[row.Status] = row.Count
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	s.db.Model(&models.Application{}).
		Joins("JOIN positions ON positions.id = applications.position_id").
		Where("positions.company_id = ? AND applications.applied_at >= ?", companyID, weekAgo).
		Count(&dash.NewApplicationsWeek)

	s.db.Model(&models.CompanyRecruiter{}).
		Where("company_id = ? AND is_approved = ?", companyID, true).
		Count(&dash.TeamSize)
	s.db.Model(&models.CompanyRecruiter{}).
		Where("company_id = ? AND status IN ?", companyID,
			[]string{models.MembershipStatusPending, models.MembershipStatusInvited}).
		Count(&dash.OpenRequests)

	return dash, nil
}

// Admin summarizes the whole platform.
func (s *DashboardService) Admin() (*AdminDashboard, error) {
	dash := &AdminDashboard{
		UsersByRole: make(map[string]int64),
	}

	if err := s.db.Model(&models.User{}).Count(&dash.Users).Error; err != nil {
		return nil, err
	}

	type roleCount struct {
		Role  string
		Count int64
	}
	var rows []roleCount
	if err := s.db.Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		dash.UsersByRole[row.Role] = row.Count
	}

	s.db.Model(&models.Company{}).Count(&dash.Companies)
	s.db.Model(&models.Position{}).Count(&dash.Positions)
	s.db.Model(&models.Application{}).Count(&dash.Applications)

	return dash, nil
}
