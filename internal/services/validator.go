package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/dto"
)

const (
	msgRequired     = "This field is required."
	msgBlank        = "This field may not be blank."
	msgDueDatePast  = "Due date cannot be in the past"
	msgTitleTooLong = "Ensure this field has no more than 200 characters."
	maxTitleLength  = 200
)

// ApprovalDecisionValidator guards the reject payload: the requester must
// pass the approval policy for the target log.
type ApprovalDecisionValidator struct {
	requester *domain.User
	log       *domain.ActionLog
}

func NewApprovalDecisionValidator(requester *domain.User, log *domain.ActionLog) *ApprovalDecisionValidator {
	return &ApprovalDecisionValidator{requester: requester, log: log}
}

func (v *ApprovalDecisionValidator) Validate(req dto.RejectActionLogRequest) error {
	if v.log == nil || !v.log.CanApprove(v.requester) {
		return domain.NewValidationError(domain.NonFieldErrors,
			"You don't have permission to approve or reject this action log").
			WithCause(domain.ErrPermissionDenied)
	}
	return nil
}

func invalidChoice(value string) string {
	return fmt.Sprintf("%q is not a valid choice.", value)
}

func departmentMissing(id uint) string {
	return fmt.Sprintf("Department with id %d does not exist", id)
}

func userMissing(id uint) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// checkText trims s and records blank or overlong values on field.
func checkText(v *domain.ValidationError, field, s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		v.Add(field, msgBlank)
		return s
	}
	if max > 0 && len([]rune(s)) > max {
		v.Add(field, msgTitleTooLong)
	}
	return s
}

func checkDueDate(v *domain.ValidationError, due *time.Time, now time.Time) {
	if due != nil && due.Before(now) {
		v.Add("due_date", msgDueDatePast)
	}
}
