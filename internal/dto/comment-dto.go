package dto

import "time"

type CreateCommentRequest struct {
	Comment         string `json:"comment"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
}

// CommentResponse carries the log's current status and approval flag, not
// the values at the time the comment was written.
type CommentResponse struct {
	ID              uint              `json:"id"`
	Comment         string            `json:"comment"`
	User            UserSummary       `json:"user"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Status          string            `json:"status"`
	IsApproved      bool              `json:"is_approved"`
	IsViewed        bool              `json:"is_viewed"`
	ParentCommentID *uint             `json:"parent_comment_id"`
	Replies         []CommentResponse `json:"replies"`
}
