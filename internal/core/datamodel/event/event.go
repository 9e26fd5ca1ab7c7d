package event

import "time"

type Event struct {
	ID                   string     `gorm:"primaryKey"`
	Title                string     `gorm:"column:title;not null"`
	Description          string     `gorm:"column:description"`
	Category             *string    `gorm:"column:category"`
	Venue                *string    `gorm:"column:venue"`
	StartDate            time.Time  `gorm:"column:start_date;not null;index"`
	EndDate              time.Time  `gorm:"column:end_date;not null"`
	RegistrationDeadline *time.Time `gorm:"column:registration_deadline"`
	MinTeamSize          *int       `gorm:"column:min_team_size"`
	MaxTeamSize          *int       `gorm:"column:max_team_size"`
	Fee                  *float64   `gorm:"column:fee"`
	BudgetEstimate       *float64   `gorm:"column:budget_estimate"`
	Status               string     `gorm:"column:status;not null;index"`
	RejectionReason      *string    `gorm:"column:rejection_reason"`
	CreatedByID          string     `gorm:"column:created_by_id;not null;index"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Event) TableName() string { return "events" }

type EventClub struct {
	EventID string `gorm:"primaryKey;column:event_id"`
	ClubID  string `gorm:"primaryKey;column:club_id"`
}

func (EventClub) TableName() string { return "event_clubs" }
