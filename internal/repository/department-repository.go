package repository

import (
	"context"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"
)

type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	FindByID(ctx context.Context, id uint) (*domain.Department, error)
}

type departmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	if err := r.db.WithContext(ctx).Create(dept).Error; err != nil {
		return goerr.Wrap(err, "failed to create department", goerr.V("code", dept.Code))
	}
	return nil
}

func (r *departmentRepository) FindByID(ctx context.Context, id uint) (*domain.Department, error) {
	var dept domain.Department
	if err := r.db.WithContext(ctx).Preload("Units").First(&dept, id).Error; err != nil {
		return nil, wrap(err, "failed to find department", goerr.V("department_id", id))
	}
	return &dept, nil
}
