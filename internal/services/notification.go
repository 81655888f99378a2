package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/careerhub/careerhub/backend/internal/models"
	"github.com/careerhub/careerhub/backend/pkg/logger"
)

// NotificationService owns the Notification Dispatch Gateway: it persists
// in-app notification rows and pushes real-time events through the presence
// hub. Dispatch is strictly fire-and-forget — a failure here is logged and
// never surfaces to the workflow that triggered it.
type NotificationService struct {
	db    *gorm.DB
	hub   *PresenceHub
	queue TaskQueue
}

// NewNotificationService creates the service. queue may be nil, in which case
// Dispatch delivers inline (used by tests and by callers that already run in
// a background context).
func NewNotificationService(db *gorm.DB, hub *PresenceHub, queue TaskQueue) *NotificationService {
	return &NotificationService{db: db, hub: hub, queue: queue}
}

// Dispatch hands a task to the queue. Must only be called after the caller's
// own transaction has committed. Never returns an error: dispatch problems
// are logged and swallowed.
func (s *NotificationService) Dispatch(task *NotificationTask) {
	if task == nil || len(task.UserIDs) == 0 {
		return
	}

	if s.queue == nil {
		if err := s.Deliver(context.Background(), task); err != nil {
			logger.Error().Err(err).Str("kind", task.Kind).Msg("notification delivery failed")
		}
		return
	}

	if err := s.queue.Enqueue(task); err != nil {
		logger.Error().Err(err).Str("kind", task.Kind).Msg("notification enqueue failed")
	}
}

// Deliver writes one notification row per recipient and pushes the event to
// any live SSE connections. This is the queue processor.
func (s *NotificationService) Deliver(ctx context.Context, task *NotificationTask) error {
	var payloadJSON string
	if task.Payload != nil {
		if b, err := json.Marshal(task.Payload); err == nil {
			payloadJSON = string(b)
		}
	}

	now := time.Now()
	for _, userID := range task.UserIDs {
		n := models.Notification{
			UserID:  userID,
			Kind:    task.Kind,
			Title:   task.Title,
			Body:    task.Body,
			Payload: payloadJSON,
		}
		if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
			logger.Error().Err(err).Uint("user_id", userID).Str("kind", task.Kind).Msg("failed to store notification")
			continue
		}

		if s.hub != nil {
			s.hub.PublishTo(userID, NotificationEvent{
				Kind:      task.Kind,
				Title:     task.Title,
				Body:      task.Body,
				Payload:   task.Payload,
				CreatedAt: now,
			})
		}
	}
	return nil
}

type NotificationListRequest struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	UnreadOnly bool   `form:"unread_only"`
	Kind       string `form:"kind"`
}

type NotificationListResponse struct {
	Total    int64                 `json:"total"`
	Unread   int64                 `json:"unread"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Items    []models.Notification `json:"items"`
}

// List returns paginated notifications for one user.
func (s *NotificationService) List(userID uint, req *NotificationListRequest) (*NotificationListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if req.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if req.Kind != "" {
		query = query.Where("kind = ?", req.Kind)
	}

	var total int64
	query.Count(&total)

	var unread int64
	s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread)

	var items []models.Notification
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return &NotificationListResponse{
		Total:    total,
		Unread:   unread,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(userID uint) int64 {
	var count int64
	s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count)
	return count
}

// MarkRead marks a single notification read. Only the owner may mark it.
func (s *NotificationService) MarkRead(notificationID, userID uint) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead marks every notification for the user read.
func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}
