package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tramatch/tramatch-web/internal/core"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
)

const defaultNotificationLimit = 50

// NotificationServiceOptions groups dependencies for NotificationService.
type NotificationServiceOptions struct {
	Repo   core.NotificationRepository
	Users  core.UserRepository
	Logger *slog.Logger
}

// NotificationService serves the per-user inbox and admin broadcasts.
type NotificationService struct {
	repo   core.NotificationRepository
	users  core.UserRepository
	logger *slog.Logger
}

// NewNotificationService constructs a new NotificationService.
func NewNotificationService(opts NotificationServiceOptions) *NotificationService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{
		repo:   opts.Repo,
		users:  opts.Users,
		logger: logger.With("component", "notification_service"),
	}
}

// List returns the user's most recent notifications.
func (s *NotificationService) List(ctx context.Context, userID string) ([]*model.Notification, error) {
	items, err := s.repo.ListByUser(ctx, userID, defaultNotificationLimit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

// Unread counts unread notifications for the header badge.
func (s *NotificationService) Unread(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkAllRead marks every notification of the user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return n, nil
}

// Broadcast sends a system notification to every approved user and
// returns how many were delivered.
func (s *NotificationService) Broadcast(ctx context.Context, req model.BroadcastRequest) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, apperrors.Validation(err.Error())
	}
	ids, err := s.users.ApprovedIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recipients: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.repo.CreateMany(ctx, ids, core.CreateNotificationParams{
		Type:    model.NotificationSystem,
		Title:   req.Title,
		Message: req.Message,
	})
	if err != nil {
		return 0, fmt.Errorf("broadcast: %w", err)
	}
	s.logger.InfoContext(ctx, "broadcast sent", "recipients", n)
	return n, nil
}
