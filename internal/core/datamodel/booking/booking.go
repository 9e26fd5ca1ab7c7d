package booking

import "time"

type Booking struct {
	ID              string    `gorm:"primaryKey"`
	ResourceID      string    `gorm:"column:resource_id;not null;index:idx_bookings_resource_time"`
	EventID         string    `gorm:"column:event_id;not null;index"`
	StartTime       time.Time `gorm:"column:start_time;not null;index:idx_bookings_resource_time"`
	EndTime         time.Time `gorm:"column:end_time;not null"`
	Approved        bool      `gorm:"column:approved;not null"`
	Rejected        bool      `gorm:"column:rejected;not null"`
	RejectionReason *string   `gorm:"column:rejection_reason"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Booking) TableName() string { return "bookings" }

// BookingRow is a booking joined with its event and resource.
type BookingRow struct {
	Booking
	EventTitle     string `gorm:"column:event_title"`
	EventCreatorID string `gorm:"column:event_creator_id"`
	ResourceName   string `gorm:"column:resource_name"`
}
