package dto

import "time"

type AssignmentHistoryResponse struct {
	ID         uint           `json:"id"`
	ActionLog  uint           `json:"action_log"`
	AssignedBy *UserResponse  `json:"assigned_by"`
	AssignedTo []UserResponse `json:"assigned_to"`
	AssignedAt time.Time      `json:"assigned_at"`
	Comment    *string        `json:"comment"`
}
