package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/careerhub/careerhub/backend/internal/models"
)

// ApplicationListRequest carries the filter, sort and paging parameters of an
// application listing.
type ApplicationListRequest struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	PositionID uint   `form:"position_id"`
	CompanyID  uint   `form:"company_id"`
	Status     string `form:"status"`
	Search     string `form:"search"`     // matches applicant name/email, position title, company name
	DateFrom   string `form:"date_from"`  // YYYY-MM-DD, inclusive
	DateTo     string `form:"date_to"`    // YYYY-MM-DD, inclusive
	SortBy     string `form:"sort_by"`    // applicant_name, position_title, status, applied_at
	SortOrder  string `form:"sort_order"` // asc, desc
}

// ApplicationListResponse is a filtered page of applications.
type ApplicationListResponse struct {
	Total        int64                `json:"total"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
	Applications []models.Application `json:"applications"`
}

// ApplicationStatistics summarizes applications visible to one user.
type ApplicationStatistics struct {
	Total          int64              `json:"total"`
	ByStatus       map[string]int64   `json:"by_status"`
	Percentages    map[string]float64 `json:"percentages"`
	AcceptanceRate float64            `json:"acceptance_rate"` // accepted / total * 100
}

// sortColumns maps request sort keys to SQL order expressions. Anything else
// falls back to the application date.
var sortColumns = map[string]string{
	"applicant_name": "users.full_name",
	"position_title": "positions.title",
	"status":         "applications.status",
	"applied_at":     "applications.applied_at",
}

// List returns the applications visible to userID after filtering, sorting
// and paging. Admins see everything; company managers additionally see the
// applications of their companies' positions; everyone sees their own.
func (s *ApplicationService) List(userID uint, req *ApplicationListRequest) (*ApplicationListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Application{}).
		Joins("JOIN positions ON positions.id = applications.position_id").
		Joins("JOIN companies ON companies.id = positions.company_id").
		Joins("JOIN users ON users.id = applications.user_id")

	query, err := s.scopeToVisible(query, userID)
	if err != nil {
		return nil, err
	}

	if req.PositionID > 0 {
		query = query.Where("applications.position_id = ?", req.PositionID)
	}
	if req.CompanyID > 0 {
		query = query.Where("positions.company_id = ?", req.CompanyID)
	}
	if req.Status != "" {
		query = query.Where("applications.status = ?", req.Status)
	}
	if req.Search != "" {
		like := "%" + strings.TrimSpace(req.Search) + "%"
		query = query.Where(
			"users.full_name LIKE ? OR users.email LIKE ? OR positions.title LIKE ? OR companies.name LIKE ?",
			like, like, like, like)
	}
	if from, ok := parseDay(req.DateFrom); ok {
		query = query.Where("applications.applied_at >= ?", from)
	}
	if to, ok := parseDay(req.DateTo); ok {
		query = query.Where("applications.applied_at < ?", to.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	column, ok := sortColumns[req.SortBy]
	if !ok {
		column = "applications.applied_at"
	}
	direction := "DESC"
	if strings.EqualFold(req.SortOrder, "asc") {
		direction = "ASC"
	}

	var applications []models.Application
	err = query.
		Select("applications.*").
		Preload("User").
		Preload("Position").
		Preload("Position.Company").
		Order(column + " " + direction).
		Offset((req.Page - 1) * req.PageSize).
		Limit(req.PageSize).
		Find(&applications).Error
	if err != nil {
		return nil, err
	}

	return &ApplicationListResponse{
		Total:        total,
		Page:         req.Page,
		PageSize:     req.PageSize,
		Applications: applications,
	}, nil
}

// Statistics computes per-status counts, percentages and the acceptance rate
// over the applications visible to userID, optionally narrowed to one
// position or company.
func (s *ApplicationService) Statistics(userID, positionID, companyID uint) (*ApplicationStatistics, error) {
	query := s.db.Model(&models.Application{}).
		Joins("JOIN positions ON positions.id = applications.position_id")

	query, err := s.scopeToVisible(query, userID)
	if err != nil {
		return nil, err
	}

	if positionID > 0 {
		query = query.Where("applications.position_id = ?", positionID)
	}
	if companyID > 0 {
		query = query.Where("positions.company_id = ?", companyID)
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	err = query.
		Select("applications.status AS status, COUNT(*) AS count").
		Group("applications.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &ApplicationStatistics{
		ByStatus:    make(map[string]int64),
		Percentages: make(map[string]float64),
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}
	if stats.Total == 0 {
		return stats, nil
	}
	for status, count := range stats.ByStatus {
		stats.Percentages[status] = float64(count) / float64(stats.Total) * 100
	}
	stats.AcceptanceRate = float64(stats.ByStatus[models.ApplicationStatusAccepted]) / float64(stats.Total) * 100
	return stats, nil
}

// scopeToVisible restricts an applications query to what userID may see.
func (s *ApplicationService) scopeToVisible(query *gorm.DB, userID uint) (*gorm.DB, error) {
	var user models.User
	if err := s.db.Select("id", "role").First(&user, userID).Error; err != nil {
		return nil, err
	}
	if IsAdminRole(user.Role) {
		return query, nil
	}

	companyIDs := s.managedCompanyIDs(userID)
	if len(companyIDs) == 0 {
		return query.Where("applications.user_id = ?", userID), nil
	}
	return query.Where("applications.user_id = ? OR positions.company_id IN ?", userID, companyIDs), nil
}

// managedCompanyIDs returns the ids of companies the user owns or is an
// approved recruiter of.
func (s *ApplicationService) managedCompanyIDs(userID uint) []uint {
	var owned []uint
	s.db.Model(&models.Company{}).Where("created_by = ?", userID).Pluck("id", &owned)

	var member []uint
	s.db.Model(&models.CompanyRecruiter{}).
		Where("user_id = ? AND is_approved = ?", userID, true).
		Pluck("company_id", &member)

	seen := make(map[uint]bool, len(owned)+len(member))
	out := make([]uint, 0, len(owned)+len(member))
	for _, id := range append(owned, member...) {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func parseDay(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
