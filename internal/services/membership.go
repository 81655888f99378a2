package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/careerhub/careerhub/backend/internal/models"
	"github.com/careerhub/careerhub/backend/pkg/logger"
)

// genericFailure is returned whenever the persistence layer fails; details go
// to the log, never to the caller.
const genericFailure = "an error occurred, please try again later"

// errRespondDenied rolls back RespondToRequest's transaction when the caller
// is not allowed to resolve the row or the row is no longer resolvable.
var errRespondDenied = errors.New("membership response denied")

// MembershipService owns the lifecycle of company-recruiter relationships:
// none -> pending/invited -> approved/rejected, and later removal/departure.
// Every public operation returns (ok, message) and never panics or leaks raw
// storage errors across its boundary.
type MembershipService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewMembershipService(db *gorm.DB, notifier *NotificationService) *MembershipService {
	return &MembershipService{db: db, notifier: notifier}
}

// RequestToJoin creates a self-service join request (status "pending").
func (s *MembershipService) RequestToJoin(companyID, userID uint, message string) (bool, string) {
	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "company not found"
		}
		logger.Error().Err(err).Uint("company_id", companyID).Msg("membership: load company failed")
		return false, genericFailure
	}

	var existing models.CompanyRecruiter
	err := s.db.Where("company_id = ? AND user_id = ?", companyID, userID).First(&existing).Error
	if err == nil {
		switch existing.Status {
		case models.MembershipStatusApproved:
			return false, "you are already a member of this company"
		case models.MembershipStatusRejected:
			return false, "your previous request to this company was rejected"
		default:
			return false, "a membership request is already pending for this company"
		}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error().Err(err).Uint("company_id", companyID).Uint("user_id", userID).Msg("membership: lookup failed")
		return false, genericFailure
	}

	row := models.CompanyRecruiter{
		CompanyID:      companyID,
		UserID:         userID,
		Status:         models.MembershipStatusPending,
		IsApproved:     false,
		RequestMessage: message,
	}
	if err := s.db.Create(&row).Error; err != nil {
		logger.Error().Err(err).Uint("company_id", companyID).Uint("user_id", userID).Msg("membership: create request failed")
		return false, genericFailure
	}

	return true, "join request sent, a company manager will review it"
}

// InviteRecruiter creates an invitation row (status "invited") for the user
// with the given email. Only a company manager may invite.
func (s *MembershipService) InviteRecruiter(companyID uint, userEmail string, invitedBy uint, message string) (bool, string) {
	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "company not found"
		}
		logger.Error().Err(err).Uint("company_id", companyID).Msg("membership: load company failed")
		return false, genericFailure
	}

	if !s.IsCompanyManager(companyID, invitedBy) {
		return false, "you do not have permission to invite recruiters to this company"
	}

	var target models.User
	if err := s.db.Where("email = ?", userEmail).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "no user found with that email address"
		}
		logger.Error().Err(err).Str("email", userEmail).Msg("membership: lookup user failed")
		return false, genericFailure
	}

	var existing models.CompanyRecruiter
	err := s.db.Where("company_id = ? AND user_id = ?", companyID, target.ID).First(&existing).Error
	if err == nil {
		if existing.Status == models.MembershipStatusApproved {
			return false, "that user is already a member of this company"
		}
		return false, "a membership request already exists for that user"
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error().Err(err).Uint("company_id", companyID).Uint("user_id", target.ID).Msg("membership: lookup failed")
		return false, genericFailure
	}

	row := models.CompanyRecruiter{
		CompanyID:      companyID,
		UserID:         target.ID,
		Status:         models.MembershipStatusInvited,
		IsApproved:     false,
		RequestMessage: message,
		InvitedBy:      &invitedBy,
	}
	if err := s.db.Create(&row).Error; err != nil {
		logger.Error().Err(err).Uint("company_id", companyID).Uint("user_id", target.ID).Msg("membership: create invite failed")
		return false, genericFailure
	}

	s.notifier.Dispatch(&NotificationTask{
		Kind:    models.NotificationKindCompanyInvitation,
		UserIDs: []uint{target.ID},
		Title:   "Invitation to join " + company.Name,
		Body:    fmt.Sprintf("You have been invited to join %s as a recruiter.", company.Name),
		Payload: map[string]interface{}{"company_id": companyID},
	})

	return true, "invitation sent"
}

// RespondToRequest resolves an open pending/invited row. A "pending" row may
// only be answered by a company manager; an "invited" row only by the invited
// user. The row is terminal afterwards: approved or rejected.
func (s *MembershipService) RespondToRequest(companyID, userID uint, approve bool, respondedBy uint, responseMessage string) (bool, string) {
	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "company not found"
		}
		logger.Error().Err(err).Uint("company_id", companyID).Msg("membership: load company failed")
		return false, genericFailure
	}

	var row models.CompanyRecruiter
	var denied string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ? AND user_id = ? AND is_approved = ?", companyID, userID, false).
			First(&row).Error; err != nil {
			return err
		}

		switch row.Status {
		case models.MembershipStatusPending:
			// Self-service request: only a manager of the company decides.
			if !isCompanyManager(tx, companyID, respondedBy) {
				denied = "you do not have permission to respond to this request"
				return errRespondDenied
			}
		case models.MembershipStatusInvited:
			// Invitation: only the invited user decides.
			if respondedBy != userID {
				denied = "only the invited user can respond to this invitation"
				return errRespondDenied
			}
		default:
			denied = "this request cannot be processed"
			return errRespondDenied
		}

		now := time.Now()
		updates := map[string]interface{}{
			"responded_by":     respondedBy,
			"responded_at":     now,
			"response_message": responseMessage,
			"last_activity":    now,
		}
		if approve {
			updates["is_approved"] = true
			updates["status"] = models.MembershipStatusApproved
			updates["joined_at"] = now
		} else {
			updates["status"] = models.MembershipStatusRejected
		}

		// Guarded against a concurrent resolution of the same row.
		result := tx.Model(&models.CompanyRecruiter{}).
			Where("id = ? AND status = ?", row.ID, row.Status).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			denied = "this request cannot be processed"
			return errRespondDenied
		}
		return nil
	})
	if err != nil {
		if denied != "" {
			return false, denied
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "membership request not found"
		}
		logger.Error().Err(err).Uint("company_id", companyID).Uint("user_id", userID).Msg("membership: respond failed")
		return false, genericFailure
	}

	s.notifyResponse(&company, &row, approve)

	if approve {
		return true, "request approved, the recruiter has joined the company"
	}
	return true, "request rejected"
}

// notifyResponse fans out after a respond decision: the affected user always
// hears back, and on approval the rest of the team learns about the new
// member. Failures here never affect the respond outcome.
func (s *MembershipService) notifyResponse(company *models.Company, row *models.CompanyRecruiter, approved bool) {
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	s.notifier.Dispatch(&NotificationTask{
		Kind:    models.NotificationKindMembershipResponse,
		UserIDs: []uint{row.UserID},
		Title:   "Your request for " + company.Name + " was " + outcome,
		Body:    fmt.Sprintf("Your membership request for %s has been %s.", company.Name, outcome),
		Payload: map[string]interface{}{"company_id": company.ID},
	})

	if !approved {
		return
	}

	recipients := s.approvedMemberIDs(company, row.UserID)
	if len(recipients) == 0 {
		return
	}
	s.notifier.Dispatch(&NotificationTask{
		Kind:    models.NotificationKindNewTeamMember,
		UserIDs: recipients,
		Title:   "New team member at " + company.Name,
		Body:    fmt.Sprintf("A new recruiter has joined %s.", company.Name),
		Payload: map[string]interface{}{"company_id": company.ID, "user_id": row.UserID},
	})
}

// approvedMemberIDs returns the owner plus all approved members, excluding
// one user (typically the subject of the event).
func (s *MembershipService) approvedMemberIDs(company *models.Company, exclude uint) []uint {
	var ids []uint
	s.db.Model(&models.CompanyRecruiter{}).
		Where("company_id = ? AND is_approved = ?", company.ID, true).
		Pluck("user_id", &ids)

	seen := map[uint]bool{exclude: true}
	out := make([]uint, 0, len(ids)+1)
	for _, id := range append(ids, company.CreatedBy) {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// RemoveRecruiter deletes the target's membership row. The company owner can
// never be removed.
func (s *MembershipService) RemoveRecruiter(companyID, targetUserID, removedBy uint) (bool, string) {
	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "company not found"
		}
		logger.Error().Err(err).Uint("company_id", companyID).Msg("membership: load company failed")
		return false, genericFailure
	}

	if !s.IsCompanyManager(companyID, removedBy) {
		return false, "you do not have permission to remove recruiters from this company"
	}

	if targetUserID == company.CreatedBy {
		return false, "the company owner cannot be removed"
	}

	result := s.db.Where("company_id = ? AND user_id = ?", companyID, targetUserID).
		Delete(&models.CompanyRecruiter{})
	if result.Error != nil {
		logger.Error().Err(result.Error).Uint("company_id", companyID).Uint("user_id", targetUserID).Msg("membership: remove failed")
		return false, genericFailure
	}
	if result.RowsAffected == 0 {
		return false, "membership not found"
	}

	return true, "recruiter removed from the company"
}

// LeaveCompany deletes the caller's own membership row. The owner cannot
// leave; ownership must be transferred or the company deleted instead.
func (s *MembershipService) LeaveCompany(companyID, userID uint) (bool, string) {
	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "company not found"
		}
		logger.Error().Err(err).Uint("company_id", companyID).Msg("membership: load company failed")
		return false, genericFailure
	}

	if userID == company.CreatedBy {
		return false, "the owner cannot leave the company; delete the company or transfer ownership first"
	}

	result := s.db.Where("company_id = ? AND user_id = ?", companyID, userID).
		Delete(&models.CompanyRecruiter{})
	if result.Error != nil {
		logger.Error().Err(result.Error).Uint("company_id", companyID).Uint("user_id", userID).Msg("membership: leave failed")
		return false, genericFailure
	}
	if result.RowsAffected == 0 {
		return false, "you are not a member of this company"
	}

	return true, "you have left the company"
}

// CanUserManage reports whether the user holds an approved membership row.
// Note: this deliberately does NOT cover the company owner — owner-or-member
// checks go through IsCompanyManager.
func (s *MembershipService) CanUserManage(companyID, userID uint) bool {
	var count int64
	s.db.Model(&models.CompanyRecruiter{}).
		Where("company_id = ? AND user_id = ? AND is_approved = ?", companyID, userID, true).
		Count(&count)
	return count > 0
}

// IsCompanyManager is the single owner-or-approved-member capability check
// used by every authorization gate in both engines.
func (s *MembershipService) IsCompanyManager(companyID, userID uint) bool {
	return isCompanyManager(s.db, companyID, userID)
}

// isCompanyManager takes the handle explicitly so callers already inside a
// transaction reuse its connection.
func isCompanyManager(db *gorm.DB, companyID, userID uint) bool {
	var company models.Company
	if err := db.Select("created_by").First(&company, companyID).Error; err != nil {
		return false
	}
	if company.CreatedBy == userID {
		return true
	}
	var count int64
	db.Model(&models.CompanyRecruiter{}).
		Where("company_id = ? AND user_id = ? AND is_approved = ?", companyID, userID, true).
		Count(&count)
	return count > 0
}

// GetUserRole returns the user's role string for a company: Owner, Recruiter,
// Pending or None.
func (s *MembershipService) GetUserRole(companyID, userID uint) string {
	var company models.Company
	if err := s.db.Select("created_by").First(&company, companyID).Error; err != nil {
		return models.CompanyRoleNone
	}
	if company.CreatedBy == userID {
		return models.CompanyRoleOwner
	}

	var row models.CompanyRecruiter
	err := s.db.Where("company_id = ? AND user_id = ?", companyID, userID).First(&row).Error
	if err != nil {
		return models.CompanyRoleNone
	}
	if row.IsApproved {
		return models.CompanyRoleRecruiter
	}
	return models.CompanyRolePending
}

// ListMembers returns all membership rows of a company with users preloaded.
func (s *MembershipService) ListMembers(companyID uint) ([]models.CompanyRecruiter, error) {
	var members []models.CompanyRecruiter
	err := s.db.Where("company_id = ?", companyID).
		Preload("User").
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

// ListOpenRequests returns pending and invited rows for a company. Gated at
// the handler level to managers.
func (s *MembershipService) ListOpenRequests(companyID uint) ([]models.CompanyRecruiter, error) {
	var rows []models.CompanyRecruiter
	err := s.db.Where("company_id = ? AND status IN ?", companyID,
		[]string{models.MembershipStatusPending, models.MembershipStatusInvited}).
		Preload("User").
		Preload("Inviter").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// ListUserMemberships returns every membership row of one user with the
// company preloaded.
func (s *MembershipService) ListUserMemberships(userID uint) ([]models.CompanyRecruiter, error) {
	var rows []models.CompanyRecruiter
	err := s.db.Where("user_id = ?", userID).
		Preload("Company").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// TouchActivity updates the bookkeeping timestamp on an approved membership.
func (s *MembershipService) TouchActivity(companyID, userID uint) {
	now := time.Now()
	s.db.Model(&models.CompanyRecruiter{}).
		Where("company_id = ? AND user_id = ? AND is_approved = ?", companyID, userID, true).
		Update("last_activity", now)
}
