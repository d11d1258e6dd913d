package repository

import (
	"context"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	ListByEntity(ctx context.Context, entity string, entityID uint) ([]domain.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return goerr.Wrap(err, "failed to write audit log",
			goerr.V("entity", entry.Entity), goerr.V("entity_id", entry.EntityID))
	}
	return nil
}

func (r *auditRepository) ListByEntity(ctx context.Context, entity string, entityID uint) ([]domain.AuditLog, error) {
	var entries []domain.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list audit logs",
			goerr.V("entity", entity), goerr.V("entity_id", entityID))
	}
	return entries, nil
}
