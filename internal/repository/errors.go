package repository

import (
	"errors"
	"strings"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/helper"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"
)

// wrap converts gorm's not-found into the domain sentinel and attaches the
// lookup values to every other failure.
func wrap(err error, msg string, opts ...goerr.Option) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return goerr.Wrap(domain.ErrNotFound, msg, opts...)
	}
	return goerr.Wrap(err, msg, opts...)
}

// wrapReference turns a foreign key violation into a validation error on the
// field that referenced the missing row.
func wrapReference(err error, msg string, opts ...goerr.Option) error {
	if !helper.IsForeignKeyViolation(err) {
		return goerr.Wrap(err, msg, opts...)
	}

	field := domain.NonFieldErrors
	name := helper.ConstraintName(err)
	switch {
	case strings.Contains(name, "department"):
		field = "department_id"
	case strings.Contains(name, "assignees"):
		field = "assigned_to"
	}
	ve := domain.NewValidationError(field, "Referenced object no longer exists.")
	return goerr.Wrap(ve, msg, append(opts, goerr.V("constraint", name))...)
}
