package repository

import (
	"context"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, in creation order.
func Models() []any {
	return []any{
		&domain.Role{},
		&domain.Department{},
		&domain.DepartmentUnit{},
		&domain.User{},
		&domain.ActionLog{},
		&domain.ActionLogComment{},
		&domain.ActionLogAssignmentHistory{},
		&domain.ActionLogAttachment{},
		&domain.AuditLog{},
		&domain.Notification{},
	}
}

func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return goerr.Wrap(err, "failed to migrate schema")
	}
	return nil
}

// SeedRoles inserts the default role catalogue, leaving existing rows alone.
func SeedRoles(ctx context.Context, db *gorm.DB) error {
	for _, r := range domain.DefaultRoles() {
		role := r
		if err := db.WithContext(ctx).Where("name = ?", role.Name).FirstOrCreate(&role).Error; err != nil {
			return goerr.Wrap(err, "failed to seed role", goerr.V("name", r.Name))
		}
	}
	return nil
}
