package handlers

import (
	"context"
	"encoding/json"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/dto"
	"github.com/AmonKats-dev/action-log-app/internal/logging"
	"github.com/AmonKats-dev/action-log-app/internal/services"
	"github.com/m-mizutani/goerr/v2"
)

// NotificationEventHandler consumes action-log events from the queue.
type NotificationEventHandler struct {
	svc services.NotificationService
}

func NewNotificationEventHandler(svc services.NotificationService) *NotificationEventHandler {
	return &NotificationEventHandler{svc: svc}
}

func (h *NotificationEventHandler) HandleMessage(ctx context.Context, message []byte) error {
	var event dto.ActionLogEvent
	if err := json.Unmarshal(message, &event); err != nil {
		return goerr.Wrap(domain.ErrInvalidInput, "invalid event payload", goerr.V("payload", string(message)))
	}

	logging.From(ctx).Debug("action log event received",
		"event_id", event.EventID, "type", event.Type, "action_log_id", event.ActionLogID)

	_, err := h.svc.HandleEvent(ctx, event)
	return err
}
