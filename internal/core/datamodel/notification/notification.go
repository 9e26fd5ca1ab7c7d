package notification

import "time"

type Notification struct {
	ID        string     `gorm:"primaryKey"`
	UserID    string     `gorm:"column:user_id;not null;index"`
	Type      string     `gorm:"column:type;not null"`
	Category  string     `gorm:"column:category;not null"`
	Message   string     `gorm:"column:message;not null"`
	Read      bool       `gorm:"column:read;not null"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string { return "notifications" }
