package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/careerhub/careerhub/backend/internal/models"
)

// PositionService covers job posting CRUD, the public search endpoint and
// candidate bookmarks.
type PositionService struct {
	db         *gorm.DB
	membership *MembershipService
}

func NewPositionService(db *gorm.DB, membership *MembershipService) *PositionService {
	return &PositionService{db: db, membership: membership}
}

type PositionCreateRequest struct {
	CompanyID      uint   `json:"company_id" binding:"required"`
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Requirements   string `json:"requirements"`
	Location       string `json:"location"`
	EmploymentType string `json:"employment_type"`
	SalaryMin      *int   `json:"salary_min"`
	SalaryMax      *int   `json:"salary_max"`
}

type PositionUpdateRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Requirements   *string `json:"requirements"`
	Location       *string `json:"location"`
	EmploymentType *string `json:"employment_type"`
	SalaryMin      *int    `json:"salary_min"`
	SalaryMax      *int    `json:"salary_max"`
	IsOpen         *bool   `json:"is_open"`
}

type PositionListRequest struct {
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size"`
	CompanyID      uint   `form:"company_id"`
	Search         string `form:"search"` // title or description
	Location       string `form:"location"`
	EmploymentType string `form:"employment_type"`
	SalaryMin      int    `form:"salary_min"`
	IncludeClosed  bool   `form:"include_closed"`
}

type PositionListResponse struct {
	Total     int64             `json:"total"`
	Page      int               `json:"page"`
	PageSize  int               `json:"page_size"`
	Positions []models.Position `json:"positions"`
}

// Create posts a position under a company. Caller must be a company manager.
func (s *PositionService) Create(req *PositionCreateRequest, postedBy uint) (*models.Position, error) {
	var company models.Company
	if err := s.db.First(&company, req.CompanyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("company not found")
		}
		return nil, err
	}

	if !s.membership.IsCompanyManager(req.CompanyID, postedBy) {
		return nil, errors.New("you do not have permission to post positions for this company")
	}

	employmentType := req.EmploymentType
	if employmentType == "" {
		employmentType = "full_time"
	}

	position := models.Position{
		CompanyID:      req.CompanyID,
		Title:          req.Title,
		Description:    req.Description,
		Requirements:   req.Requirements,
		Location:       req.Location,
		EmploymentType: employmentType,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		IsOpen:         true,
		PostedBy:       postedBy,
	}
	if err := s.db.Create(&position).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

// Get loads one position with its company.
func (s *PositionService) Get(id uint) (*models.Position, error) {
	var position models.Position
	if err := s.db.Preload("Company").First(&position, id).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

// List is the public search endpoint. Closed positions are hidden unless
// explicitly requested (used by company dashboards).
func (s *PositionService) List(req *PositionListRequest) (*PositionListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Position{})
	if !req.IncludeClosed {
		query = query.Where("is_open = ?", true)
	}
	if req.CompanyID > 0 {
		query = query.Where("company_id = ?", req.CompanyID)
	}
	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if req.Location != "" {
		query = query.Where("location LIKE ?", "%"+req.Location+"%")
	}
	if req.EmploymentType != "" {
		query = query.Where("employment_type = ?", req.EmploymentType)
	}
	if req.SalaryMin > 0 {
		query = query.Where("salary_max >= ?", req.SalaryMin)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var positions []models.Position
	err := query.
		Preload("Company").
		Order("created_at DESC").
		Offset((req.Page - 1) * req.PageSize).
		Limit(req.PageSize).
		Find(&positions).Error
	if err != nil {
		return nil, err
	}

	return &PositionListResponse{
		Total:     total,
		Page:      req.Page,
		PageSize:  req.PageSize,
		Positions: positions,
	}, nil
}

// Update edits a position. Caller must manage the position's company.
func (s *PositionService) Update(id uint, req *PositionUpdateRequest, updatedBy uint) (*models.Position, error) {
	var position models.Position
	if err := s.db.First(&position, id).Error; err != nil {
		return nil, err
	}

	if !s.membership.IsCompanyManager(position.CompanyID, updatedBy) {
		return nil, errors.New("you do not have permission to update this position")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Requirements != nil {
		updates["requirements"] = *req.Requirements
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.EmploymentType != nil {
		updates["employment_type"] = *req.EmploymentType
	}
	if req.SalaryMin != nil {
		updates["salary_min"] = *req.SalaryMin
	}
	if req.SalaryMax != nil {
		updates["salary_max"] = *req.SalaryMax
	}
	if req.IsOpen != nil {
		updates["is_open"] = *req.IsOpen
	}
	if len(updates) == 0 {
		return &position, nil
	}

	if err := s.db.Model(&position).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

// Close marks a position as no longer accepting applications.
func (s *PositionService) Close(id, closedBy uint) error {
	closed := false
	_, err := s.Update(id, &PositionUpdateRequest{IsOpen: &closed}, closedBy)
	return err
}

// Delete removes a position. Existing applications survive via soft delete.
func (s *PositionService) Delete(id, deletedBy uint) error {
	var position models.Position
	if err := s.db.First(&position, id).Error; err != nil {
		return err
	}
	if !s.membership.IsCompanyManager(position.CompanyID, deletedBy) {
		return errors.New("you do not have permission to delete this position")
	}
	return s.db.Delete(&position).Error
}

// Save bookmarks a position for a candidate. Saving twice is a no-op.
func (s *PositionService) Save(positionID, userID uint) error {
	var count int64
	s.db.Model(&models.Position{}).Where("id = ?", positionID).Count(&count)
	if count == 0 {
		return errors.New("position not found")
	}

	var existing int64
	s.db.Model(&models.SavedPosition{}).
		Where("user_id = ? AND position_id = ?", userID, positionID).
		Count(&existing)
	if existing > 0 {
		return nil
	}

	return s.db.Create(&models.SavedPosition{
		UserID:     userID,
		PositionID: positionID,
	}).Error
}

// Unsave removes a bookmark; removing a missing bookmark is a no-op.
func (s *PositionService) Unsave(positionID, userID uint) error {
	return s.db.Where("user_id = ? AND position_id = ?", userID, positionID).
		Delete(&models.SavedPosition{}).Error
}

// ListSaved returns a user's bookmarked positions, newest bookmark first.
func (s *PositionService) ListSaved(userID uint) ([]models.SavedPosition, error) {
	var saved []models.SavedPosition
	err := s.db.Where("user_id = ?", userID).
		Preload("Position").
		Preload("Position.Company").
		Order("created_at DESC").
		Find(&saved).Error
	return saved, err
}

// IsSaved reports whether the user bookmarked the position.
func (s *PositionService) IsSaved(positionID, userID uint) bool {
	var count int64
	s.db.Model(&models.SavedPosition{}).
		Where("user_id = ? AND position_id = ?", userID, positionID).
		Count(&count)
	return count > 0
}
