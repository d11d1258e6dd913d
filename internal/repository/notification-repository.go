package repository

import (
	"context"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/helper"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateMany(ctx context.Context, items []domain.Notification) (int, error)
	ListByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, id uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// CreateMany stores notifications. Rows rejected by the (event_id, user_id)
// unique index were already delivered and are skipped. It returns the number
// of new rows.
func (r *notificationRepository) CreateMany(ctx context.Context, items []domain.Notification) (int, error) {
	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			n := &items[i]

			// savepoint keeps the outer transaction usable after a conflict
			err := tx.Transaction(func(sp *gorm.DB) error {
				return sp.Create(n).Error
			})
			if helper.IsUniqueViolation(err) {
				n.ID = 0
				continue
			}
			if err != nil {
				return goerr.Wrap(err, "failed to store notification",
					goerr.V("event_id", n.EventID), goerr.V("user_id", n.UserID))
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	var items []domain.Notification

	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	if err := q.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list notifications", goerr.V("user_id", userID))
	}
	return items, nil
}

// MarkRead only touches notifications owned by userID.
func (r *notificationRepository) MarkRead(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return goerr.Wrap(res.Error, "failed to mark notification read", goerr.V("notification_id", id))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(domain.ErrNotFound, "notification not found",
			goerr.V("notification_id", id), goerr.V("user_id", userID))
	}
	return nil
}
