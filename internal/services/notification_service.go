// Package services – NotificationService
//
// The notification inbox: listing a user's durable notifications, unread
// counting, and read-state transitions. Rows are created exclusively by the
// hub's push path; this service never writes new notifications.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/carewire/go-hospital-backend/internal/domain"
)

// NotificationRepo defines the persistence contract required by
// NotificationService.
type NotificationRepo interface {
	ListNotifications(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	MarkRead(ctx context.Context, db *gorm.DB, id, userID string) error
	MarkAllRead(ctx context.Context, db *gorm.DB, userID string) (int64, error)
}

// NotificationService exposes a user's durable notification inbox.
type NotificationService struct {
	DB   *gorm.DB
	Repo NotificationRepo
}

// List returns a page of the user's notifications, newest first. Invalid
// page values fall back to defaults; pageSize 0 selects the default of 20
// while a negative pageSize returns everything.
func (s *NotificationService) List(ctx context.Context, userID string, page, pageSize int) ([]domain.Notification, error) {
	if page < 1 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	if pageSize < 0 {
		return s.Repo.ListNotifications(ctx, s.DB, userID, 0, 0)
	}
	return s.Repo.ListNotifications(ctx, s.DB, userID, (page-1)*pageSize, pageSize)
}

// UnreadCount returns how many notifications of userID are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.Repo.CountUnread(ctx, s.DB, userID)
}

// MarkRead marks one notification read. A missing or foreign row surfaces as
// repo.ErrNotFound from the repository.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.Repo.MarkRead(ctx, s.DB, id, userID)
}

// MarkAllRead marks every unread notification of userID read and returns the
// number of rows changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.Repo.MarkAllRead(ctx, s.DB, userID)
}
