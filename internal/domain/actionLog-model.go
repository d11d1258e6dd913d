package domain

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

type ActionLogStatus string

const (
	ActionLogStatusOpen       ActionLogStatus = "open"
	ActionLogStatusInProgress ActionLogStatus = "in_progress"
	ActionLogStatusClosed     ActionLogStatus = "closed"
	ActionLogStatusApproved   ActionLogStatus = "approved" // set only by Approve
	ActionLogStatusRejected   ActionLogStatus = "rejected" // set only by Reject
)

func (s ActionLogStatus) IsValid() bool {
	switch s {
	case ActionLogStatusOpen, ActionLogStatusInProgress, ActionLogStatusClosed,
		ActionLogStatusApproved, ActionLogStatusRejected:
		return true
	}
	return false
}

// IsDecided reports whether the log reached a terminal approval state.
func (s ActionLogStatus) IsDecided() bool {
	return s == ActionLogStatusApproved || s == ActionLogStatusRejected
}

// IsAssignable reports whether a generic update may set this status.
func (s ActionLogStatus) IsAssignable() bool {
	return s.IsValid() && !s.IsDecided()
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type ActionLog struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Title           string          `gorm:"type:varchar(200);not null" json:"title"`
	Description     string          `gorm:"type:text;not null" json:"description"`
	DepartmentID    uint            `gorm:"not null;index" json:"department_id"`
	Department      *Department     `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	CreatedByID     uint            `gorm:"not null;index" json:"created_by_id"`
	CreatedBy       *User           `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Status          ActionLogStatus `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Priority        Priority        `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	AssignedTo      []User          `gorm:"many2many:action_log_assignees;" json:"assigned_to,omitempty"`
	ApprovedByID    *uint           `json:"approved_by_id,omitempty"`
	ApprovedBy      *User           `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectionReason *string         `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (l *ActionLog) CanApprove(user *User) bool {
	return CanApproveActionLog(user, l)
}

// IsApproved mirrors the approval flag exposed on comments: a log counts as
// approved once an approver has been recorded.
func (l *ActionLog) IsApproved() bool {
	return l.ApprovedByID != nil
}

func (l *ActionLog) AssigneeIDs() []uint {
	ids := make([]uint, 0, len(l.AssignedTo))
	for _, u := range l.AssignedTo {
		ids = append(ids, u.ID)
	}
	return ids
}

func (l *ActionLog) Approve(user *User, now time.Time) error {
	if !l.CanApprove(user) {
		return goerr.Wrap(ErrPermissionDenied, "user does not have permission to approve this log",
			goerr.V("action_log_id", l.ID))
	}
	if l.Status.IsDecided() {
		return goerr.Wrap(ErrAlreadyDecided, "cannot approve action log",
			goerr.V("action_log_id", l.ID), goerr.V("status", l.Status))
	}

	approverID := user.ID
	l.Status = ActionLogStatusApproved
	l.ApprovedByID = &approverID
	l.ApprovedBy = user
	l.ApprovedAt = &now
	l.RejectionReason = nil
	return nil
}

// Reject records the decision without an approver so that approved_by and
// approved_at stay unset together.
func (l *ActionLog) Reject(user *User, reason string, now time.Time) error {
	if !l.CanApprove(user) {
		return goerr.Wrap(ErrPermissionDenied, "user does not have permission to reject this log",
			goerr.V("action_log_id", l.ID))
	}
	if l.Status.IsDecided() {
		return goerr.Wrap(ErrAlreadyDecided, "cannot reject action log",
			goerr.V("action_log_id", l.ID), goerr.V("status", l.Status))
	}

	l.Status = ActionLogStatusRejected
	l.RejectionReason = &reason
	l.ApprovedByID = nil
	l.ApprovedBy = nil
	l.ApprovedAt = nil
	return nil
}
