package domain

import "time"

const (
	RoleEconomist             = "economist"
	RoleSeniorEconomist       = "senior_economist"
	RolePrincipalEconomist    = "principal_economist"
	RoleAssistantCommissioner = "assistant_commissioner"
	RoleCommissioner          = "commissioner"
	RoleSuperAdmin            = "super_admin"
)

type Role struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	CanCreateLogs   bool      `gorm:"not null" json:"can_create_logs"`
	CanUpdateStatus bool      `gorm:"not null" json:"can_update_status"`
	CanApprove      bool      `gorm:"not null" json:"can_approve"`
	CanViewAllLogs  bool      `gorm:"not null" json:"can_view_all_logs"`
	CanConfigure    bool      `gorm:"not null" json:"can_configure"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DefaultRoles is the role catalogue seeded by the migrate command.
func DefaultRoles() []Role {
	return []Role{
		{Name: RoleEconomist, CanCreateLogs: true, CanUpdateStatus: true},
		{Name: RoleSeniorEconomist, CanCreateLogs: true, CanUpdateStatus: true},
		{Name: RolePrincipalEconomist, CanCreateLogs: true, CanUpdateStatus: true, CanApprove: true, CanViewAllLogs: true, CanConfigure: true},
		{Name: RoleAssistantCommissioner, CanCreateLogs: true, CanUpdateStatus: true, CanApprove: true, CanViewAllLogs: true, CanConfigure: true},
		{Name: RoleCommissioner, CanCreateLogs: true, CanUpdateStatus: true, CanApprove: true, CanViewAllLogs: true, CanConfigure: true},
		{Name: RoleSuperAdmin, CanCreateLogs: true, CanUpdateStatus: true, CanApprove: true, CanViewAllLogs: true, CanConfigure: true},
	}
}
