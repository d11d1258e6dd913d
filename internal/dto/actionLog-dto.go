package dto

import "time"

type CreateActionLogRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	DepartmentID *uint      `json:"department_id"`
	AssignedTo   *[]uint    `json:"assigned_to"`
	Status       string     `json:"status,omitempty"`
	Priority     string     `json:"priority,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}

// UpdateActionLogRequest is used by both PUT and PATCH. Pointer fields are
// nil when the key is absent. Comment is a side channel, not a column.
type UpdateActionLogRequest struct {
	Title        *string      `json:"title,omitempty"`
	Description  *string      `json:"description,omitempty"`
	DepartmentID *uint        `json:"department_id,omitempty"`
	AssignedTo   *[]uint      `json:"assigned_to,omitempty"`
	Status       *string      `json:"status,omitempty"`
	Priority     *string      `json:"priority,omitempty"`
	DueDate      OptionalTime `json:"due_date"`
	Comment      *string      `json:"comment,omitempty"`
}

type RejectActionLogRequest struct {
	RejectionReason string `json:"rejection_reason"`
}

type ActionLogQuery struct {
	Status       string
	Priority     string
	DepartmentID *uint
	Limit        int
	Offset       int
}

type ActionLogResponse struct {
	ID              uint               `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Department      DepartmentResponse `json:"department"`
	CreatedBy       *UserResponse      `json:"created_by"`
	Status          string             `json:"status"`
	Priority        string             `json:"priority"`
	DueDate         *time.Time         `json:"due_date"`
	AssignedTo      []uint             `json:"assigned_to"`
	ApprovedBy      *UserResponse      `json:"approved_by"`
	ApprovedAt      *time.Time         `json:"approved_at"`
	RejectionReason *string            `json:"rejection_reason"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	CanApprove      bool               `json:"can_approve"`
	CommentCount    int64              `json:"comment_count"`
}

type AuditLogResponse struct {
	ID        uint           `json:"id"`
	ActorID   uint           `json:"actor_id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
