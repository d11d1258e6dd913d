package repository

import (
	"context"
	"errors"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	if err := r.db.WithContext(ctx).Omit("Role", "Department", "DepartmentUnit").Create(user).Error; err != nil {
		return goerr.Wrap(err, "failed to create user", goerr.V("username", user.Username))
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Department").
		Preload("DepartmentUnit.Department").
		First(&user, id).Error
	if err != nil {
		return nil, wrap(err, "failed to find user", goerr.V("user_id", id))
	}
	return &user, nil
}

// FindByIDs returns the users that exist among ids, ordered by id.
func (r *userRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error) {
	var users []domain.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("DepartmentUnit.Department").
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find users", goerr.V("user_ids", ids))
	}
	return users, nil
}
