package domain

import "time"

// ActionLogAssignmentHistory is an immutable snapshot of the assignee set
// taken whenever an update carries assigned_to.
type ActionLogAssignmentHistory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ActionLogID  uint      `gorm:"not null;index" json:"action_log_id"`
	AssignedByID uint      `gorm:"not null;index" json:"assigned_by_id"`
	AssignedBy   *User     `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`
	AssignedTo   []User    `gorm:"many2many:action_log_assignment_history_assignees;" json:"assigned_to"`
	AssignedAt   time.Time `gorm:"autoCreateTime;index" json:"assigned_at"`
	Comment      *string   `gorm:"type:text" json:"comment,omitempty"`
}

func (ActionLogAssignmentHistory) TableName() string {
	return "action_log_assignment_histories"
}
