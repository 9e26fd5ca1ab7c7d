package registration

import "time"

type Registration struct {
	ID           string    `gorm:"primaryKey"`
	EventID      string    `gorm:"column:event_id;not null;uniqueIndex:idx_registrations_event_user"`
	UserID       string    `gorm:"column:user_id;not null;uniqueIndex:idx_registrations_event_user"`
	Department   *string   `gorm:"column:department"`
	AcademicYear *int      `gorm:"column:academic_year"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

func (Registration) TableName() string { return "registrations" }

type RegistrationRow struct {
	Registration
	EventTitle     string    `gorm:"column:event_title"`
	EventStartDate time.Time `gorm:"column:event_start_date"`
}
