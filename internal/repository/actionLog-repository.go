package repository

import (
	"context"
	"time"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"
)

// Scope limits which action logs a caller may see. A zero DepartmentID
// without All matches nothing.
type Scope struct {
	All          bool
	DepartmentID uint
}

func (s Scope) apply(db *gorm.DB) *gorm.DB {
	if s.All {
		return db
	}
	return db.Where("action_logs.department_id = ?", s.DepartmentID)
}

type ActionLogFilter struct {
	Status       string
	Priority     string
	DepartmentID *uint
	Limit        int
	Offset       int
}

// ActionLogUpdate is applied atomically: the history snapshot or plain
// comment, the column changes, the assignee set and the audit row.
type ActionLogUpdate struct {
	Fields    map[string]any
	Assignees *[]domain.User
	History   *domain.ActionLogAssignmentHistory
	Comment   *domain.ActionLogComment
	Audit     *domain.AuditLog
}

type ActionLogRepository interface {
	Create(ctx context.Context, log *domain.ActionLog, audit *domain.AuditLog) error
	FindByID(ctx context.Context, id uint, scope Scope) (*domain.ActionLog, error)
	List(ctx context.Context, scope Scope, filter ActionLogFilter) ([]domain.ActionLog, error)
	ApplyUpdate(ctx context.Context, log *domain.ActionLog, upd ActionLogUpdate) error
	Decide(ctx context.Context, log *domain.ActionLog, audit *domain.AuditLog) error
	Delete(ctx context.Context, log *domain.ActionLog, audit *domain.AuditLog) error
	CountComments(ctx context.Context, ids []uint) (map[uint]int64, error)
}

type actionLogRepository struct {
	db *gorm.DB
}

func NewActionLogRepository(db *gorm.DB) ActionLogRepository {
	return &actionLogRepository{db: db}
}

const actionLogAssigneeTable = "action_log_assignees"

func preloadActionLog(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Department.Units").
		Preload("CreatedBy.Role").
		Preload("CreatedBy.DepartmentUnit.Department").
		Preload("ApprovedBy.Role").
		Preload("ApprovedBy.DepartmentUnit.Department").
		Preload("AssignedTo", func(db *gorm.DB) *gorm.DB { return db.Order("users.id ASC") })
}

func (r *actionLogRepository) Create(ctx context.Context, log *domain.ActionLog, audit *domain.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// link existing users without upserting them
		if err := tx.Omit("AssignedTo.*", "Department", "CreatedBy", "ApprovedBy").Create(log).Error; err != nil {
			return wrapReference(err, "failed to create action log", goerr.V("title", log.Title))
		}
		if audit != nil {
			audit.EntityID = log.ID
			if err := tx.Create(audit).Error; err != nil {
				return goerr.Wrap(err, "failed to write audit log", goerr.V("action_log_id", log.ID))
			}
		}
		return nil
	})
}

func (r *actionLogRepository) FindByID(ctx context.Context, id uint, scope Scope) (*domain.ActionLog, error) {
	var log domain.ActionLog
	err := scope.apply(preloadActionLog(r.db.WithContext(ctx))).First(&log, id).Error
	if err != nil {
		return nil, wrap(err, "failed to find action log", goerr.V("action_log_id", id))
	}
	return &log, nil
}

func (r *actionLogRepository) List(ctx context.Context, scope Scope, filter ActionLogFilter) ([]domain.ActionLog, error) {
	var logs []domain.ActionLog

	q := scope.apply(preloadActionLog(r.db.WithContext(ctx)))
	if filter.Status != "" {
		q = q.Where("action_logs.status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("action_logs.priority = ?", filter.Priority)
	}
	if filter.DepartmentID != nil {
		q = q.Where("action_logs.department_id = ?", *filter.DepartmentID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	if err := q.Order("action_logs.created_at DESC, action_logs.id DESC").Find(&logs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list action logs")
	}
	return logs, nil
}

func (r *actionLogRepository) ApplyUpdate(ctx context.Context, log *domain.ActionLog, upd ActionLogUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if upd.History != nil {
			upd.History.ActionLogID = log.ID
			if err := tx.Omit("AssignedTo.*", "AssignedBy").Create(upd.History).Error; err != nil {
				return wrapReference(err, "failed to record assignment history", goerr.V("action_log_id", log.ID))
			}
		}

		fields := map[string]any{"updated_at": time.Now()}
		for k, v := range upd.Fields {
			fields[k] = v
		}
		if err := tx.Model(&domain.ActionLog{}).Where("id = ?", log.ID).Updates(fields).Error; err != nil {
			return wrapReference(err, "failed to update action log", goerr.V("action_log_id", log.ID))
		}

		if upd.Assignees != nil {
			if err := replaceAssignees(tx, log.ID, *upd.Assignees); err != nil {
				return err
			}
		}

		if upd.Comment != nil {
			upd.Comment.ActionLogID = log.ID
			if err := tx.Omit("User").Create(upd.Comment).Error; err != nil {
				return goerr.Wrap(err, "failed to create comment", goerr.V("action_log_id", log.ID))
			}
		}

		if upd.Audit != nil {
			upd.Audit.EntityID = log.ID
			if err := tx.Create(upd.Audit).Error; err != nil {
				return goerr.Wrap(err, "failed to write audit log", goerr.V("action_log_id", log.ID))
			}
		}
		return nil
	})
}

func replaceAssignees(tx *gorm.DB, logID uint, users []domain.User) error {
	if err := tx.Exec("DELETE FROM "+actionLogAssigneeTable+" WHERE action_log_id = ?", logID).Error; err != nil {
		return goerr.Wrap(err, "failed to clear assignees", goerr.V("action_log_id", logID))
	}
	if len(users) == 0 {
		return nil
	}

	rows := make([]map[string]any, 0, len(users))
	for _, u := range users {
		rows = append(rows, map[string]any{"action_log_id": logID, "user_id": u.ID})
	}
	if err := tx.Table(actionLogAssigneeTable).Create(rows).Error; err != nil {
		return wrapReference(err, "failed to assign users", goerr.V("action_log_id", logID))
	}
	return nil
}

// Decide persists an approve/reject transition. The update is guarded by the
// undecided status so only one concurrent decision can win.
func (r *actionLogRepository) Decide(ctx context.Context, log *domain.ActionLog, audit *domain.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.ActionLog{}).
			Where("id = ? AND status NOT IN ?", log.ID, []string{
				string(domain.ActionLogStatusApproved),
				string(domain.ActionLogStatusRejected),
			}).
			Updates(map[string]any{
				"status":           string(log.Status),
				"approved_by_id":   log.ApprovedByID,
				"approved_at":      log.ApprovedAt,
				"rejection_reason": log.RejectionReason,
				"updated_at":       time.Now(),
			})
		if res.Error != nil {
			return goerr.Wrap(res.Error, "failed to record decision", goerr.V("action_log_id", log.ID))
		}
		if res.RowsAffected == 0 {
			return goerr.Wrap(domain.ErrAlreadyDecided, "action log was decided concurrently",
				goerr.V("action_log_id", log.ID))
		}

		if audit != nil {
			audit.EntityID = log.ID
			if err := tx.Create(audit).Error; err != nil {
				return goerr.Wrap(err, "failed to write audit log", goerr.V("action_log_id", log.ID))
			}
		}
		return nil
	})
}

// Delete removes the log with its comments, history, attachments and
// notifications. Audit rows are kept.
func (r *actionLogRepository) Delete(ctx context.Context, log *domain.ActionLog, audit *domain.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stmts := []string{
			"DELETE FROM " + actionLogAssigneeTable + " WHERE action_log_id = ?",
			"DELETE FROM action_log_assignment_history_assignees WHERE action_log_assignment_history_id IN " +
				"(SELECT id FROM action_log_assignment_histories WHERE action_log_id = ?)",
		}
		for _, s := range stmts {
			if err := tx.Exec(s, log.ID).Error; err != nil {
				return goerr.Wrap(err, "failed to remove assignee links", goerr.V("action_log_id", log.ID))
			}
		}

		children := []any{
			&domain.ActionLogAssignmentHistory{},
			&domain.ActionLogComment{},
			&domain.ActionLogAttachment{},
			&domain.Notification{},
		}
		for _, m := range children {
			if err := tx.Where("action_log_id = ?", log.ID).Delete(m).Error; err != nil {
				return goerr.Wrap(err, "failed to remove action log children", goerr.V("action_log_id", log.ID))
			}
		}

		res := tx.Delete(&domain.ActionLog{}, log.ID)
		if res.Error != nil {
			return goerr.Wrap(res.Error, "failed to delete action log", goerr.V("action_log_id", log.ID))
		}
		if res.RowsAffected == 0 {
			return goerr.Wrap(domain.ErrNotFound, "action log not found", goerr.V("action_log_id", log.ID))
		}

		if audit != nil {
			audit.EntityID = log.ID
			if err := tx.Create(audit).Error; err != nil {
				return goerr.Wrap(err, "failed to write audit log", goerr.V("action_log_id", log.ID))
			}
		}
		return nil
	})
}

// CountComments counts every comment, replies included, per action log.
func (r *actionLogRepository) CountComments(ctx context.Context, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		ActionLogID uint
		Total       int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.ActionLogComment{}).
		Select("action_log_id, COUNT(*) AS total").
		Where("action_log_id IN ?", ids).
		Group("action_log_id").
		Scan(&rows).Error
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count comments", goerr.V("action_log_ids", ids))
	}

	for _, row := range rows {
		counts[row.ActionLogID] = row.Total
	}
	return counts, nil
}
