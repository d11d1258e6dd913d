package repository_test

import (
	"context"
	"testing"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/repository"
	"github.com/AmonKats-dev/action-log-app/internal/testutil"
	"github.com/m-mizutani/gt"
)

func TestCommentRepository(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewFixture(t)
	logs := repository.NewActionLogRepository(f.DB)
	repo := repository.NewCommentRepository(f.DB)

	dept := f.Department(t, "Macro")
	u := f.User(t, domain.RoleEconomist, dept)
	l1 := createLog(t, logs, u, dept)
	l2 := createLog(t, logs, u, dept)

	first := &domain.ActionLogComment{ActionLogID: l1.ID, UserID: u.ID, Comment: "first"}
	audit := &domain.AuditLog{ActorID: u.ID, Action: domain.AuditActionCommented, Entity: domain.AuditEntityActionLog}
	gt.NoError(t, repo.Create(ctx, first, audit)).Required()
	gt.Value(t, audit.EntityID).Equal(l1.ID)

	second := &domain.ActionLogComment{ActionLogID: l1.ID, UserID: u.ID, Comment: "second"}
	gt.NoError(t, repo.Create(ctx, second, nil)).Required()

	t.Run("find is limited to the log", func(t *testing.T) {
		got, err := repo.FindInLog(ctx, l1.ID, first.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Comment).Equal("first")

		_, err = repo.FindInLog(ctx, l2.ID, first.ID)
		gt.Error(t, err).Is(domain.ErrNotFound)
	})

	t.Run("list is newest first with authors", func(t *testing.T) {
		items, err := repo.ListByActionLog(ctx, l1.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(2).Required()
		gt.Value(t, items[0].ID).Equal(second.ID)
		gt.Value(t, items[0].User).NotNil()
	})

	t.Run("mark viewed", func(t *testing.T) {
		n, err := repo.MarkViewed(ctx, l1.ID)
		gt.NoError(t, err).Required()
		gt.Number(t, n).Equal(2)

		n, err = repo.MarkViewed(ctx, l1.ID)
		gt.NoError(t, err).Required()
		gt.Number(t, n).Equal(0)
	})
}

func TestSeedRolesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)

	gt.NoError(t, repository.SeedRoles(ctx, db)).Required()

	roles, err := repository.NewRoleRepository(db).List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, roles).Length(len(domain.DefaultRoles()))

	econ, err := repository.NewRoleRepository(db).FindByName(ctx, domain.RoleEconomist)
	gt.NoError(t, err).Required()
	gt.Bool(t, econ.CanApprove).False()
}
