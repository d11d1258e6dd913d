package domain

import "time"

type ActionLogAttachment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ActionLogID  uint      `gorm:"not null;index" json:"action_log_id"`
	Filename     string    `gorm:"type:varchar(255);not null" json:"filename"`
	FileURL      string    `gorm:"type:text;not null" json:"file_url"`
	MimeType     *string   `gorm:"type:varchar(100)" json:"mime_type,omitempty"`
	FileSize     int64     `json:"file_size"`
	UploadedByID uint      `gorm:"not null;index" json:"uploaded_by_id"`
	UploadedBy   *User     `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
