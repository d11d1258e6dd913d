package repository

import (
	"context"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.ActionLogComment, audit *domain.AuditLog) error
	FindInLog(ctx context.Context, actionLogID, commentID uint) (*domain.ActionLogComment, error)
	ListByActionLog(ctx context.Context, actionLogID uint) ([]domain.ActionLogComment, error)
	MarkViewed(ctx context.Context, actionLogID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.ActionLogComment, audit *domain.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(comment).Error; err != nil {
			return goerr.Wrap(err, "failed to create comment", goerr.V("action_log_id", comment.ActionLogID))
		}
		if audit != nil {
			audit.EntityID = comment.ActionLogID
			if err := tx.Create(audit).Error; err != nil {
				return goerr.Wrap(err, "failed to write audit log", goerr.V("action_log_id", comment.ActionLogID))
			}
		}
		return nil
	})
}

// FindInLog returns the comment only when it belongs to the given log.
func (r *commentRepository) FindInLog(ctx context.Context, actionLogID, commentID uint) (*domain.ActionLogComment, error) {
	var c domain.ActionLogComment
	err := r.db.WithContext(ctx).
		Where("id = ? AND action_log_id = ?", commentID, actionLogID).
		First(&c).Error
	if err != nil {
		return nil, wrap(err, "failed to find comment",
			goerr.V("action_log_id", actionLogID), goerr.V("comment_id", commentID))
	}
	return &c, nil
}

// ListByActionLog loads every comment of the log, newest first.
func (r *commentRepository) ListByActionLog(ctx context.Context, actionLogID uint) ([]domain.ActionLogComment, error) {
	var comments []domain.ActionLogComment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("action_log_id = ?", actionLogID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list comments", goerr.V("action_log_id", actionLogID))
	}
	return comments, nil
}

func (r *commentRepository) MarkViewed(ctx context.Context, actionLogID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.ActionLogComment{}).
		Where("action_log_id = ? AND is_viewed = ?", actionLogID, false).
		Update("is_viewed", true)
	if res.Error != nil {
		return 0, goerr.Wrap(res.Error, "failed to mark comments viewed", goerr.V("action_log_id", actionLogID))
	}
	return res.RowsAffected, nil
}
