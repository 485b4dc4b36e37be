package models

import "time"

type NotificationType string

const (
	NotificationFollow NotificationType = "follow"
	NotificationLike   NotificationType = "like"
)

type Notification struct {
	ID         string           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FromUserID string           `gorm:"column:from_user_id;type:uuid;index" json:"from_user_id"`
	ToUserID   string           `gorm:"column:to_user_id;type:uuid;index" json:"to_user_id"`
	Type       NotificationType `gorm:"column:type;type:text" json:"type"`
	PostID     *string          `gorm:"column:post_id;type:uuid" json:"post_id,omitempty"`
	Read       bool             `gorm:"column:read" json:"read"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
