package dto

import "time"

type RoleResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	CanCreateLogs   bool   `json:"can_create_logs"`
	CanUpdateStatus bool   `json:"can_update_status"`
	CanApprove      bool   `json:"can_approve"`
	CanViewAllLogs  bool   `json:"can_view_all_logs"`
	CanConfigure    bool   `json:"can_configure"`
}

type DepartmentUnitResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	UnitType       string    `json:"unit_type"`
	Description    string    `json:"description"`
	Department     uint      `json:"department"`
	DepartmentName string    `json:"department_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type DepartmentResponse struct {
	ID          uint                     `json:"id"`
	Name        string                   `json:"name"`
	Code        string                   `json:"code"`
	Description string                   `json:"description"`
	Units       []DepartmentUnitResponse `json:"units"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

type UserResponse struct {
	ID             uint                    `json:"id"`
	Username       string                  `json:"username"`
	Email          string                  `json:"email"`
	FirstName      string                  `json:"first_name"`
	LastName       string                  `json:"last_name"`
	Role           *RoleResponse           `json:"role"`
	Department     *uint                   `json:"department"`
	DepartmentUnit *DepartmentUnitResponse `json:"department_unit"`
	EmployeeID     string                  `json:"employee_id"`
	PhoneNumber    string                  `json:"phone_number"`
	IsActive       bool                    `json:"is_active"`
	Designation    *string                 `json:"designation"`
}

// UserSummary is the compact user shape embedded in comment threads.
type UserSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}
