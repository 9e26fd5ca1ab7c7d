package analytics

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/core/common/validation"
)

// InactiveWindow is how far back a club must have an event starting to
// count as active.
const InactiveWindow = 60 * 24 * time.Hour

const dateLayout = "2006-01-02"

// Range bounds a summary. Either end may be open.
type Range struct {
	From *time.Time
	To   *time.Time
}

// ParseRange reads the from/to query values. from is moved to the start of
// its day and to to the last nanosecond of its day, both in UTC.
func ParseRange(from, to string) (Range, error) {
	var r Range
	if from = strings.TrimSpace(from); from != "" {
		d, err := parseDay(from)
		if err != nil {
			return r, errors.NewValidationFieldError("from", "from must be a date (YYYY-MM-DD)", errors.ErrCodeInvalidDate)
		}
		r.From = &d
	}
	if to = strings.TrimSpace(to); to != "" {
		d, err := parseDay(to)
		if err != nil {
			return r, errors.NewValidationFieldError("to", "to must be a date (YYYY-MM-DD)", errors.ErrCodeInvalidDate)
		}
		end := d.Add(24*time.Hour - time.Nanosecond)
		r.To = &end
	}

	if r.From != nil && r.To != nil {
		v := validation.NewValidator()
		v.Field("to", *r.To).NotBefore("from", *r.From)
		if err := v.Validate(); err != nil {
			return r, err
		}
	}
	return r, nil
}

func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

type PendingAttention struct {
	PendingEventApprovals int64 `json:"pendingEventApprovals" db:"pending_event_approvals"`
	PendingBookings       int64 `json:"pendingBookings" db:"pending_bookings"`
	ClubsInactive60Days   int64 `json:"clubsInactive60Days" db:"clubs_inactive"`
}

type ClubCount struct {
	ClubID   string `json:"clubId" db:"club_id"`
	ClubName string `json:"clubName" db:"club_name"`
	Count    int64  `json:"count" db:"count"`
}

type ResourceCount struct {
	ResourceID   string `json:"resourceId" db:"resource_id"`
	ResourceName string `json:"resourceName" db:"resource_name"`
	Count        int64  `json:"count" db:"count"`
}

type MonthCount struct {
	Month string `json:"month" db:"month"`
	Count int64  `json:"count" db:"count"`
}

type Totals struct {
	TotalBookings      int64 `json:"totalBookings"`
	TotalRegistrations int64 `json:"totalRegistrations"`
	TotalClubs         int64 `json:"totalClubs" db:"total_clubs"`
	TotalResources     int64 `json:"totalResources" db:"total_resources"`
}

type Summary struct {
	EventsPerClub        []ClubCount     `json:"eventsPerClub"`
	BookingsPerResource  []ResourceCount `json:"bookingsPerResource"`
	ParticipationByMonth []MonthCount    `json:"participationByMonth"`
	Totals               Totals          `json:"totals"`
}
