package dto

import "time"

type NotificationResponse struct {
	ID               uint      `json:"id"`
	ActionLogID      uint      `json:"action_log"`
	CommentID        *uint     `json:"comment"`
	NotificationType string    `json:"notification_type"`
	Message          string    `json:"message"`
	IsRead           bool      `json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}
