package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/dto"
	"github.com/AmonKats-dev/action-log-app/internal/interfaces"
	"github.com/AmonKats-dev/action-log-app/internal/logging"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// eventPublisher sends action-log events after the write has committed.
// Delivery is best-effort: failures are logged, never returned.
type eventPublisher struct {
	producer interfaces.ProducerHandler
	now      func() time.Time
}

func (p eventPublisher) publish(ctx context.Context, eventType string, l *domain.ActionLog, actor *domain.User, message string, commentID *uint) {
	if p.producer == nil {
		return
	}

	recipients := eventRecipients(l, actor)
	if len(recipients) == 0 {
		return
	}

	ev := dto.ActionLogEvent{
		EventID:      uuid.NewString(),
		Type:         eventType,
		ActionLogID:  l.ID,
		Title:        l.Title,
		Status:       string(l.Status),
		ActorID:      actor.ID,
		RecipientIDs: recipients,
		CommentID:    commentID,
		Message:      message,
		OccurredAt:   p.now().UTC().Format(time.RFC3339),
	}

	logger := logging.From(ctx).With("event_type", eventType, "event_id", ev.EventID, "action_log_id", l.ID)
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error("failed to encode event", "error", err)
		return
	}

	key := []byte(strconv.FormatUint(uint64(l.ID), 10))
	if err := p.producer.PublishMessage(ctx, key, payload); err != nil {
		logger.Warn("failed to publish event", "error", err)
		return
	}
	logger.Debug("event published", "recipients", len(recipients))
}

// eventRecipients is the assignees plus the creator, without the actor.
func eventRecipients(l *domain.ActionLog, actor *domain.User) []uint {
	seen := map[uint]bool{}
	if actor != nil {
		seen[actor.ID] = true
	}

	var ids []uint
	add := func(id uint) {
		if id == 0 || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}
	for _, u := range l.AssignedTo {
		add(u.ID)
	}
	add(l.CreatedByID)
	return ids
}

func newAudit(actor *domain.User, action string, details map[string]any) *domain.AuditLog {
	entry := &domain.AuditLog{
		ActorID: actor.ID,
		Action:  action,
		Entity:  domain.AuditEntityActionLog,
	}
	if len(details) > 0 {
		if b, err := json.Marshal(details); err == nil {
			entry.Details = datatypes.JSON(b)
		}
	}
	return entry
}
