package helper_test

import (
	"errors"
	"testing"

	"github.com/AmonKats-dev/action-log-app/internal/helper"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"gorm.io/gorm"
)

func TestConstraintErrors(t *testing.T) {
	unique := goerr.Wrap(&pgconn.PgError{Code: "23505", ConstraintName: "idx_notification_event_user"}, "insert")
	fk := goerr.Wrap(&pgconn.PgError{Code: "23503", ConstraintName: "fk_action_logs_department"}, "insert")

	gt.Bool(t, helper.IsUniqueViolation(unique)).True()
	gt.Bool(t, helper.IsForeignKeyViolation(unique)).False()
	gt.Value(t, helper.ConstraintName(unique)).Equal("idx_notification_event_user")

	gt.Bool(t, helper.IsForeignKeyViolation(fk)).True()
	gt.Bool(t, helper.IsUniqueViolation(fk)).False()
	gt.Value(t, helper.ConstraintName(fk)).Equal("fk_action_logs_department")

	t.Run("translated gorm errors", func(t *testing.T) {
		gt.Bool(t, helper.IsUniqueViolation(goerr.Wrap(gorm.ErrDuplicatedKey, "insert"))).True()
		gt.Bool(t, helper.IsForeignKeyViolation(goerr.Wrap(gorm.ErrForeignKeyViolated, "insert"))).True()
		gt.Value(t, helper.ConstraintName(gorm.ErrDuplicatedKey)).Equal("")
	})

	t.Run("other errors", func(t *testing.T) {
		other := errors.New("connection reset")
		gt.Bool(t, helper.IsUniqueViolation(other)).False()
		gt.Bool(t, helper.IsForeignKeyViolation(other)).False()
		gt.Bool(t, helper.IsUniqueViolation(nil)).False()
		gt.Bool(t, helper.IsUniqueViolation(&pgconn.PgError{Code: "40001"})).False()
	})
}
