package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/careerhub/careerhub/backend/internal/models"
	"github.com/careerhub/careerhub/backend/internal/utils"
)

// UserService covers profile updates plus the admin user-management surface.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UserListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Role     string `form:"role"`
	Search   string `form:"search"` // name or email
	Active   *bool  `form:"active"`
}

type UserListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Users    []models.User `json:"users"`
}

type ProfileUpdateRequest struct {
	FullName *string `json:"full_name"`
	Headline *string `json:"headline"`
	Location *string `json:"location"`
	Phone    *string `json:"phone"`
}

// List returns a filtered page of users. Admin only, gated at the route.
func (s *UserService) List(req *UserListRequest) (*UserListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.User{})
	if req.Role != "" {
		query = query.Where("role = ?", req.Role)
	}
	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("full_name LIKE ? OR email LIKE ?", like, like)
	}
	if req.Active != nil {
		query = query.Where("is_active = ?", *req.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	err := query.
		Order("created_at DESC").
		Offset((req.Page - 1) * req.PageSize).
		Limit(req.PageSize).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return &UserListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Users:    users,
	}, nil
}

// UpdateProfile edits the caller's own profile fields.
func (s *UserService) UpdateProfile(userID uint, req *ProfileUpdateRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Headline != nil {
		updates["headline"] = *req.Headline
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// UpdateRole changes a user's platform role. An admin cannot demote
// themselves, so there is always at least one admin left.
func (s *UserService) UpdateRole(userID uint, role string, updatedBy uint) error {
	if role != RoleAdmin && role != RoleRecruiter && role != RoleCandidate {
		return errors.New("invalid role")
	}
	if userID == updatedBy && role != RoleAdmin {
		return errors.New("you cannot remove your own admin role")
	}

	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

// SetActive enables or disables an account. Admins cannot disable themselves.
func (s *UserService) SetActive(userID uint, active bool, updatedBy uint) error {
	if userID == updatedBy && !active {
		return errors.New("you cannot disable your own account")
	}

	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

// ResetPassword sets a user's password without the old one. Admin only.
func (s *UserService) ResetPassword(userID uint, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("password", hashed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

// Delete soft-deletes a user account. Company ownership must be transferred
// first; owned companies block deletion.
func (s *UserService) Delete(userID, deletedBy uint) error {
	if userID == deletedBy {
		return errors.New("you cannot delete your own account")
	}

	var owned int64
	s.db.Model(&models.Company{}).Where("created_by = ?", userID).Count(&owned)
	if owned > 0 {
		return errors.New("user owns companies; transfer ownership first")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.CompanyRecruiter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.SavedPosition{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.User{}, userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("user not found")
		}
		return nil
	})
}
