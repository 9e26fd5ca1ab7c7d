package registration

import (
	"time"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/core/common/validation"
)

type RegisterDTO struct {
	EventID string `json:"eventId"`
}

func (d *RegisterDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("eventId", d.EventID).Required()
	return v.Validate()
}

type RegistrationResponse struct {
	ID             string     `json:"id"`
	EventID        string     `json:"eventId"`
	UserID         string     `json:"userId"`
	Department     *string    `json:"department"`
	AcademicYear   *int       `json:"academicYear"`
	CreatedAt      time.Time  `json:"createdAt"`
	EventTitle     string     `json:"eventTitle,omitempty"`
	EventStartDate *time.Time `json:"eventStartDate,omitempty"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
