package services

import (
	"context"

	"github.com/Vijayaa21/blabber/internal/models"
	pgrepo "github.com/Vijayaa21/blabber/internal/repositories/postgres"
	"github.com/Vijayaa21/blabber/internal/utils"
)

type NotificationService interface {
	// List returns the user's notifications and marks them read.
	List(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	DeleteAll(ctx context.Context, userID string) error
}

type notificationService struct {
	repo pgrepo.NotificationRepository
}

func NewNotificationService(repo pgrepo.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	const op = "NotificationService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	rows, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list notifications", err)
	}
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to mark notifications read", err)
	}
	return rows, nil
}

func (s *notificationService) DeleteAll(ctx context.Context, userID string) error {
	const op = "NotificationService.DeleteAll"

	if userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if err := s.repo.DeleteAll(ctx, userID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete notifications", err)
	}
	return nil
}
