package repository

import (
	"context"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"
)

type AttachmentRepository interface {
	Create(ctx context.Context, att *domain.ActionLogAttachment, audit *domain.AuditLog) error
	ListByActionLog(ctx context.Context, actionLogID uint) ([]domain.ActionLogAttachment, error)
}

type attachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, att *domain.ActionLogAttachment, audit *domain.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("UploadedBy").Create(att).Error; err != nil {
			return goerr.Wrap(err, "failed to save attachment", goerr.V("action_log_id", att.ActionLogID))
		}
		if audit != nil {
			audit.EntityID = att.ActionLogID
			if err := tx.Create(audit).Error; err != nil {
				return goerr.Wrap(err, "failed to write audit log", goerr.V("action_log_id", att.ActionLogID))
			}
		}
		return nil
	})
}

func (r *attachmentRepository) ListByActionLog(ctx context.Context, actionLogID uint) ([]domain.ActionLogAttachment, error) {
	var items []domain.ActionLogAttachment
	err := r.db.WithContext(ctx).
		Preload("UploadedBy").
		Where("action_log_id = ?", actionLogID).
		Order("uploaded_at DESC, id DESC").
		Find(&items).Error
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list attachments", goerr.V("action_log_id", actionLogID))
	}
	return items, nil
}
