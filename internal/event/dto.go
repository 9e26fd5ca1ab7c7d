package event

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/core/common/validation"
)

type CreateEventDTO struct {
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Category             *string    `json:"category,omitempty"`
	Venue                *string    `json:"venue,omitempty"`
	StartDate            time.Time  `json:"startDate"`
	EndDate              time.Time  `json:"endDate"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty"`
	ClubIDs              []string   `json:"clubIds"`
	MinTeamSize          *int       `json:"minTeamSize,omitempty"`
	MaxTeamSize          *int       `json:"maxTeamSize,omitempty"`
	Fee                  *float64   `json:"fee,omitempty"`
	BudgetEstimate       *float64   `json:"budgetEstimate,omitempty"`
}

func (d *CreateEventDTO) Validate() *errors.AppError {
	d.Title = strings.TrimSpace(d.Title)

	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("startDate", d.StartDate).Required()
	v.Field("endDate", d.EndDate).Required().NotBefore("startDate", d.StartDate)
	v.Field("clubIds", d.ClubIDs).Required()
	v.Field("registrationDeadline", d.RegistrationDeadline).NotAfter("startDate", d.StartDate)
	v.Field("minTeamSize", d.MinTeamSize).NonNegative().Custom(func(interface{}) *errors.AppError {
		if d.MinTeamSize != nil && d.MaxTeamSize != nil && *d.MinTeamSize > *d.MaxTeamSize {
			return errors.NewValidationFieldError("minTeamSize", "minTeamSize must not exceed maxTeamSize", errors.ErrCodeInvalidRange)
		}
		return nil
	})
	v.Field("maxTeamSize", d.MaxTeamSize).NonNegative()
	v.Field("fee", d.Fee).NonNegative()
	v.Field("budgetEstimate", d.BudgetEstimate).NonNegative()
	return v.Validate()
}

// ReviewDTO carries an admin decision. Reason is mandatory when rejecting.
type ReviewDTO struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

func (d *ReviewDTO) Validate() *errors.AppError {
	d.Reason = strings.TrimSpace(d.Reason)
	if d.Approve {
		return nil
	}
	v := validation.NewValidator()
	v.Field("reason", d.Reason).Required().MaxLength(1000)
	return v.Validate()
}

type EventResponse struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Category             *string    `json:"category,omitempty"`
	Venue                *string    `json:"venue,omitempty"`
	StartDate            time.Time  `json:"startDate"`
	EndDate              time.Time  `json:"endDate"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty"`
	MinTeamSize          *int       `json:"minTeamSize,omitempty"`
	MaxTeamSize          *int       `json:"maxTeamSize,omitempty"`
	Fee                  *float64   `json:"fee,omitempty"`
	BudgetEstimate       *float64   `json:"budgetEstimate,omitempty"`
	Status               Status     `json:"status"`
	RejectionReason      *string    `json:"rejectionReason"`
	CreatedByID          string     `json:"createdById"`
	ClubIDs              []string   `json:"clubIds"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}
