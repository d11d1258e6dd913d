package domain

import (
	"strings"
	"time"
)

// User mirrors the identity provider's account record. The service only reads
// it to resolve requesters and assignees.
type User struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Username         string          `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email            string          `gorm:"type:varchar(254);index" json:"email"`
	FirstName        string          `gorm:"type:varchar(150)" json:"first_name"`
	LastName         string          `gorm:"type:varchar(150)" json:"last_name"`
	EmployeeID       string          `gorm:"type:varchar(50);index" json:"employee_id"`
	PhoneNumber      string          `gorm:"type:varchar(17)" json:"phone_number"`
	Designation      *string         `gorm:"type:varchar(100)" json:"designation,omitempty"`
	IsActive         bool            `gorm:"not null" json:"is_active"`
	RoleID           *uint           `gorm:"index" json:"role_id,omitempty"`
	Role             *Role           `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	DepartmentID     *uint           `gorm:"index" json:"department_id,omitempty"`
	Department       *Department     `gorm:"foreignKey:DepartmentID" json:"-"`
	DepartmentUnitID *uint           `json:"department_unit_id,omitempty"`
	DepartmentUnit   *DepartmentUnit `gorm:"foreignKey:DepartmentUnitID" json:"department_unit,omitempty"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) RoleName() string {
	if u == nil || u.Role == nil {
		return ""
	}
	return u.Role.Name
}

func (u *User) HasRole(names ...string) bool {
	role := u.RoleName()
	for _, n := range names {
		if role == n {
			return true
		}
	}
	return false
}

// InDepartment reports whether the user belongs to the given department.
func (u *User) InDepartment(departmentID uint) bool {
	return u != nil && u.DepartmentID != nil && *u.DepartmentID == departmentID
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
