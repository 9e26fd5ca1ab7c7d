package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/campus-ops/internal/analytics"
	"github.com/jmoiron/sqlx"
	pkgerrors "github.com/pkg/errors"
)

// Store runs the dashboard aggregates as plain SQL.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

const pendingAttentionQuery = `
SELECT
	(SELECT COUNT(*) FROM events WHERE status = 'SUBMITTED') AS pending_event_approvals,
	(SELECT COUNT(*) FROM bookings WHERE approved = FALSE AND rejected = FALSE) AS pending_bookings,
	(SELECT COUNT(*) FROM clubs c WHERE NOT EXISTS (
		SELECT 1 FROM event_clubs ec
		JOIN events e ON e.id = ec.event_id
		WHERE ec.club_id = c.id AND e.start_date >= $1
	)) AS clubs_inactive`

func (s *Store) PendingAttention(ctx context.Context, activeSince time.Time) (*analytics.PendingAttention, error) {
	var p analytics.PendingAttention
	if err := s.db.GetContext(ctx, &p, pendingAttentionQuery, activeSince); err != nil {
		return nil, pkgerrors.WithStack(err)
	}
	return &p, nil
}

// The range predicates are overlap based: a row counts when it starts on or
// before the range end and ends on or after the range start.
const eventsPerClubQuery = `
SELECT ec.club_id, c.name AS club_name, COUNT(*) AS count
FROM event_clubs ec
JOIN events e ON e.id = ec.event_id
JOIN clubs c ON c.id = ec.club_id
WHERE ($1::timestamptz IS NULL OR e.start_date <= $1)
  AND ($2::timestamptz IS NULL OR e.end_date >= $2)
GROUP BY ec.club_id, c.name
ORDER BY count DESC, c.name`

func (s *Store) EventsPerClub(ctx context.Context, r analytics.Range) ([]analytics.ClubCount, error) {
	var rows []analytics.ClubCount
	if err := s.db.SelectContext(ctx, &rows, eventsPerClubQuery, r.To, r.From); err != nil {
		return nil, pkgerrors.WithStack(err)
	}
	return rows, nil
}

const bookingsPerResourceQuery = `
SELECT b.resource_id, res.name AS resource_name, COUNT(*) AS count
FROM bookings b
JOIN resources res ON res.id = b.resource_id
WHERE ($1::timestamptz IS NULL OR b.start_time <= $1)
  AND ($2::timestamptz IS NULL OR b.end_time >= $2)
GROUP BY b.resource_id, res.name
ORDER BY count DESC, res.name`

func (s *Store) BookingsPerResource(ctx context.Context, r analytics.Range) ([]analytics.ResourceCount, error) {
	var rows []analytics.ResourceCount
	if err := s.db.SelectContext(ctx, &rows, bookingsPerResourceQuery, r.To, r.From); err != nil {
		return nil, pkgerrors.WithStack(err)
	}
	return rows, nil
}

const registrationsByMonthQuery = `
SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM') AS month, COUNT(*) AS count
FROM registrations
WHERE ($1::timestamptz IS NULL OR created_at >= $1)
  AND ($2::timestamptz IS NULL OR created_at <= $2)
GROUP BY month
ORDER BY month`

func (s *Store) RegistrationsByMonth(ctx context.Context, r analytics.Range) ([]analytics.MonthCount, error) {
	var rows []analytics.MonthCount
	if err := s.db.SelectContext(ctx, &rows, registrationsByMonthQuery, r.From, r.To); err != nil {
		return nil, pkgerrors.WithStack(err)
	}
	return rows, nil
}

const catalogTotalsQuery = `
SELECT
	(SELECT COUNT(*) FROM clubs) AS total_clubs,
	(SELECT COUNT(*) FROM resources) AS total_resources`

func (s *Store) CatalogTotals(ctx context.Context) (*analytics.Totals, error) {
	var t analytics.Totals
	if err := s.db.GetContext(ctx, &t, catalogTotalsQuery); err != nil {
		return nil, pkgerrors.WithStack(err)
	}
	return &t, nil
}
