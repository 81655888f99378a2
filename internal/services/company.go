package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/careerhub/careerhub/backend/internal/models"
	"github.com/careerhub/careerhub/backend/pkg/logger"
)

// CompanyService owns company CRUD and ownership transfer. Mutations are
// gated here rather than in handlers so membership checks stay in one place.
type CompanyService struct {
	db         *gorm.DB
	membership *MembershipService
	notifier   *NotificationService
}

func NewCompanyService(db *gorm.DB, membership *MembershipService, notifier *NotificationService) *CompanyService {
	return &CompanyService{db: db, membership: membership, notifier: notifier}
}

type CompanyCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Industry    string `json:"industry"`
	Location    string `json:"location"`
	Website     string `json:"website"`
}

type CompanyUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Industry    *string `json:"industry"`
	Location    *string `json:"location"`
	Website     *string `json:"website"`
}

type CompanyListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Industry string `form:"industry"`
	Location string `form:"location"`
}

type CompanyListResponse struct {
	Total     int64            `json:"total"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
	Companies []models.Company `json:"companies"`
}

// Create registers a company with the caller as owner.
func (s *CompanyService) Create(req *CompanyCreateRequest, createdBy uint) (*models.Company, error) {
	company := models.Company{
		Name:        req.Name,
		Description: req.Description,
		Industry:    req.Industry,
		Location:    req.Location,
		Website:     req.Website,
		CreatedBy:   createdBy,
	}
	if err := s.db.Create(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// Get loads one company with its owner.
func (s *CompanyService) Get(id uint) (*models.Company, error) {
	var company models.Company
	if err := s.db.Preload("Owner").First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// List returns a filtered page of companies; public, no auth needed.
func (s *CompanyService) List(req *CompanyListRequest) (*CompanyListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Company{})
	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if req.Industry != "" {
		query = query.Where("industry = ?", req.Industry)
	}
	if req.Location != "" {
		query = query.Where("location LIKE ?", "%"+req.Location+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var companies []models.Company
	err := query.
		Order("created_at DESC").
		Offset((req.Page - 1) * req.PageSize).
		Limit(req.PageSize).
		Find(&companies).Error
	if err != nil {
		return nil, err
	}

	return &CompanyListResponse{
		Total:     total,
		Page:      req.Page,
		PageSize:  req.PageSize,
		Companies: companies,
	}, nil
}

// Update edits profile fields. Only a company manager may update; approved
// members are notified of the change.
func (s *CompanyService) Update(id uint, req *CompanyUpdateRequest, updatedBy uint) (*models.Company, error) {
	var company models.Company
	if err := s.db.First(&company, id).Error; err != nil {
		return nil, err
	}

	if !s.membership.IsCompanyManager(id, updatedBy) {
		return nil, errors.New("you do not have permission to update this company")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Industry != nil {
		updates["industry"] = *req.Industry
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if len(updates) == 0 {
		return &company, nil
	}

	if err := s.db.Model(&company).Updates(updates).Error; err != nil {
		return nil, err
	}

	recipients := s.membership.approvedMemberIDs(&company, updatedBy)
	if len(recipients) > 0 {
		s.notifier.Dispatch(&NotificationTask{
			Kind:    models.NotificationKindCompanyUpdated,
			UserIDs: recipients,
			Title:   company.Name + " profile updated",
			Body:    "The company profile has been updated.",
			Payload: map[string]interface{}{"company_id": company.ID},
		})
	}

	return &company, nil
}

// TransferOwnership moves ownership to another approved member. Only the
// current owner may transfer. The previous owner keeps (or gains) an approved
// membership row so they remain on the team.
func (s *CompanyService) TransferOwnership(companyID, newOwnerID, requestedBy uint) (bool, string) {
	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "company not found"
		}
		logger.Error().Err(err).Uint("company_id", companyID).Msg("company: load failed")
		return false, genericFailure
	}

	if company.CreatedBy != requestedBy {
		return false, "only the owner can transfer ownership"
	}
	if newOwnerID == requestedBy {
		return false, "you already own this company"
	}
	if !s.membership.CanUserManage(companyID, newOwnerID) {
		return false, "the new owner must be an approved member of the company"
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&company).Update("created_by", newOwnerID).Error; err != nil {
			return err
		}
		// The former owner may not have a membership row of their own.
		var row models.CompanyRecruiter
		err := tx.Where("company_id = ? AND user_id = ?", companyID, requestedBy).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.CompanyRecruiter{
				CompanyID:  companyID,
				UserID:     requestedBy,
				Status:     models.MembershipStatusApproved,
				IsApproved: true,
			}).Error
		}
		return err
	})
	if err != nil {
		logger.Error().Err(err).Uint("company_id", companyID).Msg("company: ownership transfer failed")
		return false, genericFailure
	}

	return true, "ownership transferred"
}

// Delete removes a company. Only the owner or an admin may delete; positions
// under the company are closed rather than deleted so application history
// survives.
func (s *CompanyService) Delete(companyID, deletedBy uint) (bool, string) {
	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "company not found"
		}
		logger.Error().Err(err).Uint("company_id", companyID).Msg("company: load failed")
		return false, genericFailure
	}

	var user models.User
	if err := s.db.Select("id", "role").First(&user, deletedBy).Error; err != nil {
		return false, genericFailure
	}
	if company.CreatedBy != deletedBy && !IsAdminRole(user.Role) {
		return false, "only the owner can delete the company"
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Position{}).
			Where("company_id = ?", companyID).
			Update("is_open", false).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", companyID).
			Delete(&models.CompanyRecruiter{}).Error; err != nil {
			return err
		}
		return tx.Delete(&company).Error
	})
	if err != nil {
		logger.Error().Err(err).Uint("company_id", companyID).Msg("company: delete failed")
		return false, genericFailure
	}

	return true, "company deleted"
}

// ListOwned returns the companies a user owns.
func (s *CompanyService) ListOwned(userID uint) ([]models.Company, error) {
	var companies []models.Company
	err := s.db.Where("created_by = ?", userID).Order("created_at DESC").Find(&companies).Error
	return companies, err
}
