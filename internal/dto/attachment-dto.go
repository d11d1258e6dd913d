package dto

import "time"

type AttachmentResponse struct {
	ID         uint         `json:"id"`
	ActionLog  uint         `json:"action_log"`
	Filename   string       `json:"filename"`
	FileURL    string       `json:"file_url"`
	MimeType   *string      `json:"mime_type"`
	FileSize   int64        `json:"file_size"`
	UploadedBy *UserSummary `json:"uploaded_by"`
	UploadedAt time.Time    `json:"uploaded_at"`
}
