package dto

const (
	EventActionLogAssigned      = "action_log.assigned"
	EventActionLogCommented     = "action_log.commented"
	EventActionLogApproved      = "action_log.approved"
	EventActionLogRejected      = "action_log.rejected"
	EventActionLogStatusChanged = "action_log.status_changed"
)

// ActionLogEvent is published on the action-log topic and consumed by the
// notifier worker. Recipients are resolved by the publisher.
type ActionLogEvent struct {
	EventID      string `json:"event_id"`
	Type         string `json:"type"`
	ActionLogID  uint   `json:"action_log_id"`
	Title        string `json:"title"`
	Status       string `json:"status"`
	ActorID      uint   `json:"actor_id"`
	RecipientIDs []uint `json:"recipient_ids"`
	CommentID    *uint  `json:"comment_id,omitempty"`
	Message      string `json:"message"`
	OccurredAt   string `json:"occurred_at"`
}
