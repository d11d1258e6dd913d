package repository

import (
	"context"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"
)

type AssignmentHistoryRepository interface {
	ListByActionLog(ctx context.Context, actionLogID uint) ([]domain.ActionLogAssignmentHistory, error)
}

type assignmentHistoryRepository struct {
	db *gorm.DB
}

func NewAssignmentHistoryRepository(db *gorm.DB) AssignmentHistoryRepository {
	return &assignmentHistoryRepository{db: db}
}

func (r *assignmentHistoryRepository) ListByActionLog(ctx context.Context, actionLogID uint) ([]domain.ActionLogAssignmentHistory, error) {
	var items []domain.ActionLogAssignmentHistory
	err := r.db.WithContext(ctx).
		Preload("AssignedBy.Role").
		Preload("AssignedBy.DepartmentUnit.Department").
		Preload("AssignedTo", func(db *gorm.DB) *gorm.DB { return db.Order("users.id ASC") }).
		Preload("AssignedTo.Role").
		Preload("AssignedTo.DepartmentUnit.Department").
		Where("action_log_id = ?", actionLogID).
		Order("assigned_at DESC, id DESC").
		Find(&items).Error
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assignment history", goerr.V("action_log_id", actionLogID))
	}
	return items, nil
}
