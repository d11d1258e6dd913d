package domain

import (
	"time"

	"gorm.io/datatypes"
)

const AuditEntityActionLog = "action_log"

const (
	AuditActionCreated    = "created"
	AuditActionUpdated    = "updated"
	AuditActionDeleted    = "deleted"
	AuditActionAssigned   = "assigned"
	AuditActionCommented  = "commented"
	AuditActionApproved   = "approved"
	AuditActionRejected   = "rejected"
	AuditActionAttachment = "attachment_uploaded"
)

type AuditLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ActorID   uint           `gorm:"not null;index" json:"actor_id"`
	Action    string         `gorm:"type:varchar(100);not null" json:"action"`
	Entity    string         `gorm:"type:varchar(100);not null;index:idx_audit_entity" json:"entity"`
	EntityID  uint           `gorm:"not null;index:idx_audit_entity" json:"entity_id"`
	Details   datatypes.JSON `json:"details,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}
