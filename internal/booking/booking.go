package booking

import (
	"time"

	bookingDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/booking"
)

type Booking struct {
	ID              string
	ResourceID      string
	EventID         string
	StartTime       time.Time
	EndTime         time.Time
	Approved        bool
	Rejected        bool
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	EventTitle   string
	ResourceName string
}

func FromDataModel(m *bookingDatamodel.Booking) *Booking {
	return &Booking{
		ID:              m.ID,
		ResourceID:      m.ResourceID,
		EventID:         m.EventID,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		Approved:        m.Approved,
		Rejected:        m.Rejected,
		RejectionReason: m.RejectionReason,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func FromRow(row *bookingDatamodel.BookingRow) *Booking {
	b := FromDataModel(&row.Booking)
	b.EventTitle = row.EventTitle
	b.ResourceName = row.ResourceName
	return b
}

func (b *Booking) ToDataModel() *bookingDatamodel.Booking {
	return &bookingDatamodel.Booking{
		ID:              b.ID,
		ResourceID:      b.ResourceID,
		EventID:         b.EventID,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Approved:        b.Approved,
		Rejected:        b.Rejected,
		RejectionReason: b.RejectionReason,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (b *Booking) Slot() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// Status is the derived review state shown to clients.
func (b *Booking) Status() string {
	switch {
	case b.Approved:
		return "APPROVED"
	case b.Rejected:
		return "REJECTED"
	default:
		return "PENDING"
	}
}

func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		ResourceID:      b.ResourceID,
		EventID:         b.EventID,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Approved:        b.Approved,
		Rejected:        b.Rejected,
		RejectionReason: b.RejectionReason,
		Status:          b.Status(),
		EventTitle:      b.EventTitle,
		ResourceName:    b.ResourceName,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
