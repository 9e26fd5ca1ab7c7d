package resource

import "time"

type Resource struct {
	ID               string    `gorm:"primaryKey"`
	Name             string    `gorm:"column:name;uniqueIndex;not null"`
	Type             string    `gorm:"column:type;not null"`
	Capacity         *int      `gorm:"column:capacity"`
	RequiresApproval bool      `gorm:"column:requires_approval;not null"`
	AutoApprove      bool      `gorm:"column:auto_approve;not null"`
	Active           bool      `gorm:"column:active;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Resource) TableName() string { return "resources" }
