package domain

import "time"

type ActionLogComment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ActionLogID     uint      `gorm:"not null;index" json:"action_log_id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	User            *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Comment         string    `gorm:"type:text;not null" json:"comment"`
	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id,omitempty"`
	IsViewed        bool      `gorm:"not null" json:"is_viewed"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *ActionLogComment) IsTopLevel() bool {
	return c.ParentCommentID == nil
}
