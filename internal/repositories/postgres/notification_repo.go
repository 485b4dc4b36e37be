package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/Vijayaa21/blabber/internal/models"
)

type NotificationRepository interface {
	Insert(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, toUserID string, limit int) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, toUserID string) error
	DeleteAll(ctx context.Context, toUserID string) error
}

type notificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Insert(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) ListByUser(ctx context.Context, toUserID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []models.Notification
	err := r.db.WithContext(ctx).
		Where("to_user_id = ?", toUserID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, toUserID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("to_user_id = ? AND read = false", toUserID).
		Update("read", true).Error
}

func (r *notificationRepo) DeleteAll(ctx context.Context, toUserID string) error {
	return r.db.WithContext(ctx).
		Where("to_user_id = ?", toUserID).
		Delete(&models.Notification{}).Error
}
