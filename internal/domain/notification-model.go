package domain

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationAssignment   NotificationType = "assignment"
	NotificationStatusChange NotificationType = "status_change"
	NotificationComment      NotificationType = "comment"
	NotificationApproval     NotificationType = "approval"
)

type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	UserID      uint             `gorm:"not null;index;uniqueIndex:idx_notification_event_user,priority:2" json:"user_id"`
	ActionLogID uint             `gorm:"not null;index" json:"action_log_id"`
	CommentID   *uint            `json:"comment_id,omitempty"`
	Type        NotificationType `gorm:"type:varchar(20);not null" json:"notification_type"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	EventID     string           `gorm:"type:varchar(64);not null;uniqueIndex:idx_notification_event_user,priority:1" json:"event_id"`
	Payload     datatypes.JSON   `json:"payload,omitempty"`
	IsRead      bool             `gorm:"not null" json:"is_read"`
	CreatedAt   time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
}
