package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/campushub/rewards-service/internal/model"
)

// NotificationRepositoryInterface defines notification data access.
type NotificationRepositoryInterface interface {
	Insert(ctx context.Context, notification *model.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// NotificationService provides user-facing notification operations. All
// operations are scoped to the calling user; touching another user's
// notification reports ErrNotificationNotFound rather than leaking its
// existence.
type NotificationService struct {
	repo NotificationRepositoryInterface
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(repo NotificationRepositoryInterface) *NotificationService {
	return &NotificationService{repo: repo}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// Delete removes one of the user's notifications.
func (s *NotificationService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}
