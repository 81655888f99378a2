package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/careerhub/careerhub/backend/internal/models"
	"github.com/careerhub/careerhub/backend/pkg/logger"
)

// allowedTransitions is the fixed application status graph. Accepted and
// rejected are terminal; every change must follow an edge here.
var allowedTransitions = map[string][]string{
	models.ApplicationStatusApplied:     {models.ApplicationStatusReviewing, models.ApplicationStatusRejected},
	models.ApplicationStatusReviewing:   {models.ApplicationStatusInterviewed, models.ApplicationStatusAccepted, models.ApplicationStatusRejected},
	models.ApplicationStatusInterviewed: {models.ApplicationStatusAccepted, models.ApplicationStatusRejected},
	models.ApplicationStatusAccepted:    {},
	models.ApplicationStatusRejected:    {},
}

// ApplicationService owns the application lifecycle: submission, the status
// transition graph with its append-only history, interviewer notes and the
// position-level authorization gate shared by all of them.
type ApplicationService struct {
	db         *gorm.DB
	membership *MembershipService
	notifier   *NotificationService
}

func NewApplicationService(db *gorm.DB, membership *MembershipService, notifier *NotificationService) *ApplicationService {
	return &ApplicationService{db: db, membership: membership, notifier: notifier}
}

// GetAvailableStatuses returns the statuses reachable from the given one. A
// terminal or unknown status yields an empty slice, never an error.
func (s *ApplicationService) GetAvailableStatuses(current string) []string {
	next, ok := allowedTransitions[current]
	if !ok {
		return []string{}
	}
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// IsValidTransition reports whether from -> to is an edge of the graph.
func (s *ApplicationService) IsValidTransition(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Apply submits an application for an open position. Each user may apply to a
// position only once; the initial "applied" history entry is system-generated
// (nil ChangedBy).
func (s *ApplicationService) Apply(positionID, userID uint, coverLetter, resumePath string) (bool, string) {
	var position models.Position
	if err := s.db.Preload("Company").First(&position, positionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "position not found"
		}
		logger.Error().Err(err).Uint("position_id", positionID).Msg("application: load position failed")
		return false, genericFailure
	}
	if !position.IsOpen {
		return false, "this position is no longer accepting applications"
	}

	var existing int64
	s.db.Model(&models.Application{}).
		Where("position_id = ? AND user_id = ?", positionID, userID).
		Count(&existing)
	if existing > 0 {
		return false, "you have already applied to this position"
	}

	now := time.Now()
	app := models.Application{
		PositionID:  positionID,
		UserID:      userID,
		Status:      models.ApplicationStatusApplied,
		AppliedAt:   now,
		CoverLetter: coverLetter,
		ResumePath:  resumePath,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&app).Error; err != nil {
			return err
		}
		history := models.ApplicationStatusHistory{
			ApplicationID: app.ID,
			Status:        models.ApplicationStatusApplied,
			ChangedAt:     now,
			ChangedBy:     nil, // submission is system-recorded, not a user decision
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		logger.Error().Err(err).Uint("position_id", positionID).Uint("user_id", userID).Msg("application: apply failed")
		return false, genericFailure
	}

	s.notifyNewApplication(&position, &app)

	return true, "application submitted"
}

func (s *ApplicationService) notifyNewApplication(position *models.Position, app *models.Application) {
	if position.Company == nil {
		var company models.Company
		if err := s.db.First(&company, position.CompanyID).Error; err != nil {
			return
		}
		position.Company = &company
	}
	recipients := s.membership.approvedMemberIDs(position.Company, app.UserID)
	if len(recipients) == 0 {
		return
	}
	s.notifier.Dispatch(&NotificationTask{
		Kind:    models.NotificationKindApplicationSubmitted,
		UserIDs: recipients,
		Title:   "New application for " + position.Title,
		Body:    fmt.Sprintf("A candidate applied to %s at %s.", position.Title, position.Company.Name),
		Payload: map[string]interface{}{
			"application_id": app.ID,
			"position_id":    position.ID,
			"company_id":     position.CompanyID,
		},
	})
}

// UpdateStatus moves an application along the transition graph. Only someone
// who can manage the application's position may change it; the status column
// and the new history row are written in one transaction.
func (s *ApplicationService) UpdateStatus(applicationID uint, newStatus string, changedBy uint, notes string) (bool, string) {
	allowed, err := s.CanManageApplication(applicationID, changedBy)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "application not found"
		}
		logger.Error().Err(err).Uint("application_id", applicationID).Msg("application: authorization check failed")
		return false, genericFailure
	}
	if !allowed {
		return false, "you do not have permission to manage this application"
	}

	var app models.Application
	if err := s.db.Preload("Position").First(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "application not found"
		}
		logger.Error().Err(err).Uint("application_id", applicationID).Msg("application: load failed")
		return false, genericFailure
	}

	if !s.IsValidTransition(app.Status, newStatus) {
		return false, fmt.Sprintf("cannot change status from %q to %q", app.Status, newStatus)
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&app).Update("status", newStatus).Error; err != nil {
			return err
		}
		history := models.ApplicationStatusHistory{
			ApplicationID: app.ID,
			Status:        newStatus,
			ChangedAt:     now,
			ChangedBy:     &changedBy,
			Notes:         notes,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		logger.Error().Err(err).Uint("application_id", applicationID).Msg("application: status update failed")
		return false, genericFailure
	}

	title := "Application status updated"
	if app.Position != nil {
		title = "Your application for " + app.Position.Title + " was updated"
	}
	s.notifier.Dispatch(&NotificationTask{
		Kind:    models.NotificationKindApplicationStatus,
		UserIDs: []uint{app.UserID},
		Title:   title,
		Body:    fmt.Sprintf("Your application status changed to %s.", newStatus),
		Payload: map[string]interface{}{
			"application_id": app.ID,
			"status":         newStatus,
		},
	})

	return true, "status updated to " + newStatus
}

// Withdraw lets the applicant delete their own application together with its
// history and notes.
func (s *ApplicationService) Withdraw(applicationID, userID uint) (bool, string) {
	var app models.Application
	if err := s.db.First(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "application not found"
		}
		logger.Error().Err(err).Uint("application_id", applicationID).Msg("application: load failed")
		return false, genericFailure
	}
	if app.UserID != userID {
		return false, "you can only withdraw your own application"
	}
	if err := s.deleteCascade(&app); err != nil {
		logger.Error().Err(err).Uint("application_id", applicationID).Msg("application: withdraw failed")
		return false, genericFailure
	}
	return true, "application withdrawn"
}

// Delete removes an application on behalf of a company manager or admin.
func (s *ApplicationService) Delete(applicationID, deletedBy uint) (bool, string) {
	allowed, err := s.CanManageApplication(applicationID, deletedBy)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "application not found"
		}
		logger.Error().Err(err).Uint("application_id", applicationID).Msg("application: authorization check failed")
		return false, genericFailure
	}
	if !allowed {
		return false, "you do not have permission to delete this application"
	}

	var app models.Application
	if err := s.db.First(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "application not found"
		}
		return false, genericFailure
	}
	if err := s.deleteCascade(&app); err != nil {
		logger.Error().Err(err).Uint("application_id", applicationID).Msg("application: delete failed")
		return false, genericFailure
	}
	return true, "application deleted"
}

// deleteCascade removes an application with its history and notes. The
// application row goes away for real so the (position, user) pair is free for
// a later re-application.
func (s *ApplicationService) deleteCascade(app *models.Application) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("application_id = ?", app.ID).Delete(&models.ApplicationStatusHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("application_id = ?", app.ID).Delete(&models.ApplicantNote{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(app).Error
	})
}

// AddApplicantNote appends an interviewer note to an application.
func (s *ApplicationService) AddApplicantNote(applicationID, interviewerID uint, note string) (bool, string) {
	if note == "" {
		return false, "note cannot be empty"
	}

	allowed, err := s.CanManageApplication(applicationID, interviewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "application not found"
		}
		logger.Error().Err(err).Uint("application_id", applicationID).Msg("application: authorization check failed")
		return false, genericFailure
	}
	if !allowed {
		return false, "you do not have permission to add notes to this application"
	}

	row := models.ApplicantNote{
		ApplicationID: applicationID,
		InterviewerID: interviewerID,
		Note:          note,
	}
	if err := s.db.Create(&row).Error; err != nil {
		logger.Error().Err(err).Uint("application_id", applicationID).Msg("application: add note failed")
		return false, genericFailure
	}
	return true, "note added"
}

// DeleteApplicantNote removes a note. The note's author or anyone who can
// manage the application may delete it.
func (s *ApplicationService) DeleteApplicantNote(noteID, userID uint) (bool, string) {
	var note models.ApplicantNote
	if err := s.db.First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "note not found"
		}
		logger.Error().Err(err).Uint("note_id", noteID).Msg("application: load note failed")
		return false, genericFailure
	}

	if note.InterviewerID != userID {
		allowed, err := s.CanManageApplication(note.ApplicationID, userID)
		if err != nil || !allowed {
			return false, "you do not have permission to delete this note"
		}
	}

	if err := s.db.Delete(&note).Error; err != nil {
		logger.Error().Err(err).Uint("note_id", noteID).Msg("application: delete note failed")
		return false, genericFailure
	}
	return true, "note deleted"
}

// ListNotes returns the notes of an application, newest first.
func (s *ApplicationService) ListNotes(applicationID uint) ([]models.ApplicantNote, error) {
	var notes []models.ApplicantNote
	err := s.db.Where("application_id = ?", applicationID).
		Preload("Interviewer").
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}

// GetApplication loads one application with its associations.
func (s *ApplicationService) GetApplication(applicationID uint) (*models.Application, error) {
	var app models.Application
	err := s.db.
		Preload("User").
		Preload("Position").
		Preload("Position.Company").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC, id ASC")
		}).
		Preload("StatusHistory.Changer").
		First(&app, applicationID).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetStatusHistory returns the append-only history of an application in
// chronological order.
func (s *ApplicationService) GetStatusHistory(applicationID uint) ([]models.ApplicationStatusHistory, error) {
	var history []models.ApplicationStatusHistory
	err := s.db.Where("application_id = ?", applicationID).
		Preload("Changer").
		Order("changed_at ASC, id ASC").
		Find(&history).Error
	return history, err
}

// CanManageApplication reports whether the user may manage the application:
// platform admin, owner of the position's company, or an approved recruiter
// of that company. Returns gorm.ErrRecordNotFound if the application does
// not exist.
func (s *ApplicationService) CanManageApplication(applicationID, userID uint) (bool, error) {
	var app models.Application
	if err := s.db.Select("id", "position_id").First(&app, applicationID).Error; err != nil {
		return false, err
	}
	return s.canManagePosition(app.PositionID, userID)
}

// CanViewApplication matches CanManageApplication but additionally allows the
// applicant to see their own application.
func (s *ApplicationService) CanViewApplication(applicationID, userID uint) (bool, error) {
	var app models.Application
	if err := s.db.Select("id", "position_id", "user_id").First(&app, applicationID).Error; err != nil {
		return false, err
	}
	if app.UserID == userID {
		return true, nil
	}
	return s.canManagePosition(app.PositionID, userID)
}

// CanManagePositionApplications is the position-level variant of the same
// gate, used before listing a position's applications.
func (s *ApplicationService) CanManagePositionApplications(positionID, userID uint) (bool, error) {
	return s.canManagePosition(positionID, userID)
}

// canManagePosition is the single authorization check behind every
// application-management gate.
func (s *ApplicationService) canManagePosition(positionID, userID uint) (bool, error) {
	var user models.User
	if err := s.db.Select("id", "role").First(&user, userID).Error; err != nil {
		return false, err
	}
	if IsAdminRole(user.Role) {
		return true, nil
	}

	var position models.Position
	if err := s.db.Select("id", "company_id").First(&position, positionID).Error; err != nil {
		return false, err
	}
	return s.membership.IsCompanyManager(position.CompanyID, userID), nil
}
