package event

import (
	"time"

	eventDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/event"
)

type Event struct {
	ID                   string
	Title                string
	Description          string
	Category             *string
	Venue                *string
	StartDate            time.Time
	EndDate              time.Time
	RegistrationDeadline *time.Time
	MinTeamSize          *int
	MaxTeamSize          *int
	Fee                  *float64
	BudgetEstimate       *float64
	Status               Status
	RejectionReason      *string
	CreatedByID          string
	ClubIDs              []string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func FromDataModel(m *eventDatamodel.Event) *Event {
	return &Event{
		ID:                   m.ID,
		Title:                m.Title,
		Description:          m.Description,
		Category:             m.Category,
		Venue:                m.Venue,
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
		RegistrationDeadline: m.RegistrationDeadline,
		MinTeamSize:          m.MinTeamSize,
		MaxTeamSize:          m.MaxTeamSize,
		Fee:                  m.Fee,
		BudgetEstimate:       m.BudgetEstimate,
		Status:               Status(m.Status),
		RejectionReason:      m.RejectionReason,
		CreatedByID:          m.CreatedByID,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func (e *Event) ToDataModel() *eventDatamodel.Event {
	return &eventDatamodel.Event{
		ID:                   e.ID,
		Title:                e.Title,
		Description:          e.Description,
		Category:             e.Category,
		Venue:                e.Venue,
		StartDate:            e.StartDate,
		EndDate:              e.EndDate,
		RegistrationDeadline: e.RegistrationDeadline,
		MinTeamSize:          e.MinTeamSize,
		MaxTeamSize:          e.MaxTeamSize,
		Fee:                  e.Fee,
		BudgetEstimate:       e.BudgetEstimate,
		Status:               string(e.Status),
		RejectionReason:      e.RejectionReason,
		CreatedByID:          e.CreatedByID,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

// RegistrationOpen reports whether a participant may still sign up at now.
func (e *Event) RegistrationOpen(now time.Time) bool {
	if e.Status != StatusPublished {
		return false
	}
	return e.RegistrationDeadline == nil || !now.After(*e.RegistrationDeadline)
}

func (e *Event) ToResponse() EventResponse {
	clubIDs := e.ClubIDs
	if clubIDs == nil {
		clubIDs = []string{}
	}
	return EventResponse{
		ID:                   e.ID,
		Title:                e.Title,
		Description:          e.Description,
		Category:             e.Category,
		Venue:                e.Venue,
		StartDate:            e.StartDate,
		EndDate:              e.EndDate,
		RegistrationDeadline: e.RegistrationDeadline,
		MinTeamSize:          e.MinTeamSize,
		MaxTeamSize:          e.MaxTeamSize,
		Fee:                  e.Fee,
		BudgetEstimate:       e.BudgetEstimate,
		Status:               e.Status,
		RejectionReason:      e.RejectionReason,
		CreatedByID:          e.CreatedByID,
		ClubIDs:              clubIDs,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}
