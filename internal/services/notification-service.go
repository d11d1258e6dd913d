package services

import (
	"context"
	"encoding/json"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/dto"
	"github.com/AmonKats-dev/action-log-app/internal/logging"
	"github.com/AmonKats-dev/action-log-app/internal/repository"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/datatypes"
)

type NotificationService interface {
	// HandleEvent writes one notification per recipient of ev.
	HandleEvent(ctx context.Context, ev dto.ActionLogEvent) (int, error)
	List(ctx context.Context, requester *domain.User, unreadOnly bool, limit, offset int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, requester *domain.User, id uint) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func notificationType(eventType string) (domain.NotificationType, bool) {
	switch eventType {
	case dto.EventActionLogAssigned:
		return domain.NotificationAssignment, true
	case dto.EventActionLogCommented:
		return domain.NotificationComment, true
	case dto.EventActionLogApproved, dto.EventActionLogRejected:
		return domain.NotificationApproval, true
	case dto.EventActionLogStatusChanged:
		return domain.NotificationStatusChange, true
	}
	return "", false
}

func (s *notificationService) HandleEvent(ctx context.Context, ev dto.ActionLogEvent) (int, error) {
	typ, ok := notificationType(ev.Type)
	if !ok {
		return 0, goerr.Wrap(domain.ErrInvalidInput, "unknown event type", goerr.V("type", ev.Type))
	}
	if ev.EventID == "" || ev.ActionLogID == 0 {
		return 0, goerr.Wrap(domain.ErrInvalidInput, "event is missing identifiers", goerr.V("event_id", ev.EventID))
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to encode event payload", goerr.V("event_id", ev.EventID))
	}

	items := make([]domain.Notification, 0, len(ev.RecipientIDs))
	for _, uid := range ev.RecipientIDs {
		if uid == 0 || uid == ev.ActorID {
			continue
		}
		items = append(items, domain.Notification{
			UserID:      uid,
			ActionLogID: ev.ActionLogID,
			CommentID:   ev.CommentID,
			Type:        typ,
			Message:     ev.Message,
			EventID:     ev.EventID,
			Payload:     datatypes.JSON(payload),
		})
	}
	if len(items) == 0 {
		return 0, nil
	}

	created, err := s.repo.CreateMany(ctx, items)
	if err != nil {
		return 0, err
	}
	logging.From(ctx).Info("notifications stored",
		"event_id", ev.EventID, "event_type", ev.Type, "created", created)
	return created, nil
}

func (s *notificationService) List(ctx context.Context, requester *domain.User, unreadOnly bool, limit, offset int) ([]dto.NotificationResponse, error) {
	if err := requireUser(requester); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByUser(ctx, requester.ID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, 0, len(items))
	for i := range items {
		out = append(out, toNotificationResponse(&items[i]))
	}
	return out, nil
}

func (s *notificationService) MarkRead(ctx context.Context, requester *domain.User, id uint) error {
	if err := requireUser(requester); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, requester.ID, id)
}
