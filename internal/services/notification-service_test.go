package services_test

import (
	"context"
	"testing"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/dto"
	"github.com/AmonKats-dev/action-log-app/internal/repository"
	"github.com/AmonKats-dev/action-log-app/internal/services"
	"github.com/AmonKats-dev/action-log-app/internal/testutil"
	"github.com/m-mizutani/gt"
)

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewFixture(t)
	svc := services.NewNotificationService(repository.NewNotificationRepository(f.DB))

	dept := f.Department(t, "Macro")
	actor := f.User(t, domain.RoleEconomist, dept)
	recipient := f.User(t, domain.RoleEconomist, dept)

	ev := dto.ActionLogEvent{
		EventID:      "evt-approved",
		Type:         dto.EventActionLogApproved,
		ActionLogID:  12,
		ActorID:      actor.ID,
		RecipientIDs: []uint{actor.ID, recipient.ID, 0},
		Message:      "Action log approved: brief",
	}

	t.Run("actor is never notified", func(t *testing.T) {
		created, err := svc.HandleEvent(ctx, ev)
		gt.NoError(t, err).Required()
		gt.Number(t, created).Equal(1)

		mine, err := svc.List(ctx, actor, false, 0, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, mine).Length(0)
	})

	t.Run("redelivery is a no-op", func(t *testing.T) {
		created, err := svc.HandleEvent(ctx, ev)
		gt.NoError(t, err).Required()
		gt.Number(t, created).Equal(0)
	})

	t.Run("list and mark read", func(t *testing.T) {
		items, err := svc.List(ctx, recipient, true, 10, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(1).Required()
		gt.Value(t, items[0].NotificationType).Equal(string(domain.NotificationApproval))

		gt.Error(t, svc.MarkRead(ctx, actor, items[0].ID)).Is(domain.ErrNotFound)
		gt.NoError(t, svc.MarkRead(ctx, recipient, items[0].ID)).Required()

		items, err = svc.List(ctx, recipient, true, 10, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(0)
	})

	t.Run("malformed events", func(t *testing.T) {
		_, err := svc.HandleEvent(ctx, dto.ActionLogEvent{EventID: "x", Type: "action_log.unknown", ActionLogID: 1})
		gt.Error(t, err).Is(domain.ErrInvalidInput)

		_, err = svc.HandleEvent(ctx, dto.ActionLogEvent{Type: dto.EventActionLogAssigned, ActionLogID: 1})
		gt.Error(t, err).Is(domain.ErrInvalidInput)
	})

	t.Run("requires a requester", func(t *testing.T) {
		_, err := svc.List(ctx, nil, false, 0, 0)
		gt.Error(t, err).Is(domain.ErrUnauthenticated)
	})
}
