package audit

import "time"

type AuditLog struct {
	ID         string    `gorm:"primaryKey"`
	UserID     string    `gorm:"column:user_id;not null;index"`
	Action     string    `gorm:"column:action;not null"`
	EntityType string    `gorm:"column:entity_type;not null"`
	EntityID   string    `gorm:"column:entity_id;not null"`
	Metadata   string    `gorm:"column:metadata"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

func (AuditLog) TableName() string { return "audit_logs" }

type AuditLogRow struct {
	AuditLog
	UserName  string `gorm:"column:user_name"`
	UserEmail string `gorm:"column:user_email"`
}
