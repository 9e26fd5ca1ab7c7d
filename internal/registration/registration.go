package registration

import (
	"time"

	registrationDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/registration"
)

type Registration struct {
	ID           string
	EventID      string
	UserID       string
	Department   *string
	AcademicYear *int
	CreatedAt    time.Time

	EventTitle     string
	EventStartDate *time.Time
}

func FromDataModel(m *registrationDatamodel.Registration) *Registration {
	return &Registration{
		ID:           m.ID,
		EventID:      m.EventID,
		UserID:       m.UserID,
		Department:   m.Department,
		AcademicYear: m.AcademicYear,
		CreatedAt:    m.CreatedAt,
	}
}

func FromRow(row *registrationDatamodel.RegistrationRow) *Registration {
	r := FromDataModel(&row.Registration)
	r.EventTitle = row.EventTitle
	start := row.EventStartDate
	r.EventStartDate = &start
	return r
}

func (r *Registration) ToResponse() RegistrationResponse {
	return RegistrationResponse{
		ID:             r.ID,
		EventID:        r.EventID,
		UserID:         r.UserID,
		Department:     r.Department,
		AcademicYear:   r.AcademicYear,
		CreatedAt:      r.CreatedAt,
		EventTitle:     r.EventTitle,
		EventStartDate: r.EventStartDate,
	}
}
