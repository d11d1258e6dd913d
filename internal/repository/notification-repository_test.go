package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/helper"
	"github.com/AmonKats-dev/action-log-app/internal/repository"
	"github.com/AmonKats-dev/action-log-app/internal/testutil"
	"github.com/m-mizutani/gt"
)

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewFixture(t)
	repo := repository.NewNotificationRepository(f.DB)

	dept := f.Department(t, "Macro")
	u1 := f.User(t, domain.RoleEconomist, dept)
	u2 := f.User(t, domain.RoleEconomist, dept)

	batch := func() []domain.Notification {
		return []domain.Notification{
			{UserID: u1.ID, ActionLogID: 1, Type: domain.NotificationAssignment, Message: "assigned", EventID: "evt-1"},
			{UserID: u2.ID, ActionLogID: 1, Type: domain.NotificationAssignment, Message: "assigned", EventID: "evt-1"},
		}
	}

	t.Run("redelivered events are stored once", func(t *testing.T) {
		created, err := repo.CreateMany(ctx, batch())
		gt.NoError(t, err).Required()
		gt.Number(t, created).Equal(2)

		created, err = repo.CreateMany(ctx, batch())
		gt.NoError(t, err).Required()
		gt.Number(t, created).Equal(0)

		items, err := repo.ListByUser(ctx, u1.ID, false, 0, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(1)
	})

	t.Run("mark read is owner scoped", func(t *testing.T) {
		items, err := repo.ListByUser(ctx, u1.ID, true, 10, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(1).Required()

		gt.Error(t, repo.MarkRead(ctx, u2.ID, items[0].ID)).Is(domain.ErrNotFound)
		gt.NoError(t, repo.MarkRead(ctx, u1.ID, items[0].ID)).Required()

		unread, err := repo.ListByUser(ctx, u1.ID, true, 10, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, unread).Length(0)
	})

	t.Run("event and user pair is unique", func(t *testing.T) {
		dup := batch()[0]
		err := f.DB.Create(&dup).Error
		gt.Bool(t, helper.IsUniqueViolation(err)).True()
	})

	t.Run("concurrent redelivery stores each recipient once", func(t *testing.T) {
		events := func() []domain.Notification {
			return []domain.Notification{
				{UserID: u1.ID, ActionLogID: 2, Type: domain.NotificationComment, Message: "commented", EventID: "evt-2"},
				{UserID: u2.ID, ActionLogID: 2, Type: domain.NotificationComment, Message: "commented", EventID: "evt-2"},
			}
		}

		var wg sync.WaitGroup
		var mu sync.Mutex
		total := 0
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				created, err := repo.CreateMany(ctx, events())
				gt.NoError(t, err)
				mu.Lock()
				total += created
				mu.Unlock()
			}()
		}
		wg.Wait()
		gt.Number(t, total).Equal(2)

		var stored int64
		gt.NoError(t, f.DB.Model(&domain.Notification{}).Where("event_id = ?", "evt-2").Count(&stored).Error)
		gt.Number(t, stored).Equal(2)
	})
}
