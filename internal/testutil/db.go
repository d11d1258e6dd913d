// Package testutil provides a migrated SQLite database and fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/repository"
	"github.com/glebarez/sqlite"
	"github.com/m-mizutani/gt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated, role-seeded database in a temp directory.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "action_log.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	gt.NoError(t, err).Required()

	sqlDB, err := db.DB()
	gt.NoError(t, err).Required()
	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	gt.NoError(t, repository.AutoMigrate(ctx, db)).Required()
	gt.NoError(t, repository.SeedRoles(ctx, db)).Required()
	return db
}

type Fixture struct {
	DB    *gorm.DB
	Users repository.UserRepository
	seq   atomic.Int64
}

func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	db := NewDB(t)
	return &Fixture{DB: db, Users: repository.NewUserRepository(db)}
}

func (f *Fixture) next() int64 {
	return f.seq.Add(1)
}

// Department creates a department with one unit.
func (f *Fixture) Department(t *testing.T, name string) *domain.Department {
	t.Helper()
	n := f.next()
	dept := &domain.Department{
		Name: name,
		Code: fmt.Sprintf("D%d", n),
		Units: []domain.DepartmentUnit{
			{Name: name + " Unit", UnitType: domain.UnitTypePublicAdmin},
		},
	}
	gt.NoError(t, f.DB.Create(dept).Error).Required()
	return dept
}

type UserOption func(*domain.User)

func Inactive() UserOption {
	return func(u *domain.User) { u.IsActive = false }
}

func WithoutRole() UserOption {
	return func(u *domain.User) { u.RoleID = nil }
}

// User creates an active user with the named role in dept (nil for none)
// and returns it reloaded with role and department.
func (f *Fixture) User(t *testing.T, roleName string, dept *domain.Department, opts ...UserOption) *domain.User {
	t.Helper()
	ctx := context.Background()
	n := f.next()

	var role domain.Role
	gt.NoError(t, f.DB.Where("name = ?", roleName).First(&role).Error).Required()

	u := &domain.User{
		Username:  fmt.Sprintf("%s_%d", roleName, n),
		Email:     fmt.Sprintf("%s_%d@example.org", roleName, n),
		FirstName: "First" + fmt.Sprint(n),
		LastName:  "Last" + fmt.Sprint(n),
		IsActive:  true,
		RoleID:    &role.ID,
	}
	if dept != nil {
		u.DepartmentID = &dept.ID
		if len(dept.Units) > 0 {
			u.DepartmentUnitID = &dept.Units[0].ID
		}
	}
	for _, opt := range opts {
		opt(u)
	}

	gt.NoError(t, f.Users.Create(ctx, u)).Required()
	loaded, err := f.Users.FindByID(ctx, u.ID)
	gt.NoError(t, err).Required()
	return loaded
}
