package domain

import "time"

const (
	UnitTypeInfrastructure = "infrastructure"
	UnitTypePublicAdmin    = "public_admin"
	UnitTypeSocialServices = "social_services"
)

type Department struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Code        string           `gorm:"type:varchar(10);uniqueIndex;not null" json:"code"`
	Description string           `gorm:"type:text" json:"description"`
	Units       []DepartmentUnit `gorm:"foreignKey:DepartmentID" json:"units,omitempty"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type DepartmentUnit struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	DepartmentID uint        `gorm:"not null;index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"-"`
	Name         string      `gorm:"type:varchar(100);not null" json:"name"`
	UnitType     string      `gorm:"type:varchar(50);not null" json:"unit_type"`
	Description  string      `gorm:"type:text" json:"description"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}
