package booking

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/core/common/validation"
)

type CreateBookingDTO struct {
	EventID    string    `json:"eventId"`
	ResourceID string    `json:"resourceId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
}

func (d *CreateBookingDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("eventId", d.EventID).Required()
	v.Field("resourceId", d.ResourceID).Required()
	v.Field("startTime", d.StartTime).Required()
	v.Field("endTime", d.EndTime).Required().NotBefore("startTime", d.StartTime)
	return v.Validate()
}

// ReviewDTO is an admin decision. Reason is optional for bookings.
type ReviewDTO struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

func (d *ReviewDTO) Validate() *errors.AppError {
	d.Reason = strings.TrimSpace(d.Reason)
	v := validation.NewValidator()
	v.Field("reason", d.Reason).MaxLength(1000)
	return v.Validate()
}

type BookingResponse struct {
	ID              string    `json:"id"`
	ResourceID      string    `json:"resourceId"`
	EventID         string    `json:"eventId"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	Approved        bool      `json:"approved"`
	Rejected        bool      `json:"rejected"`
	RejectionReason *string   `json:"rejectionReason"`
	Status          string    `json:"status"`
	EventTitle      string    `json:"eventTitle,omitempty"`
	ResourceName    string    `json:"resourceName,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
