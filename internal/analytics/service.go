package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/campus-ops/internal/auth"
)

type RepositoryAPI interface {
	PendingAttention(ctx context.Context, activeSince time.Time) (*PendingAttention, error)
	EventsPerClub(ctx context.Context, r Range) ([]ClubCount, error)
	BookingsPerResource(ctx context.Context, r Range) ([]ResourceCount, error)
	RegistrationsByMonth(ctx context.Context, r Range) ([]MonthCount, error)
	// CatalogTotals fills TotalClubs and TotalResources only.
	CatalogTotals(ctx context.Context) (*Totals, error)
}

type Authorizer interface {
	RequireAdmin(ctx context.Context, actor *auth.Actor) error
}

type Service struct {
	repo   RepositoryAPI
	authz  Authorizer
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, authz Authorizer, logger *slog.Logger) *Service {
	return &Service{repo: repo, authz: authz, logger: logger, now: time.Now}
}

func (s *Service) PendingAttention(ctx context.Context, actor *auth.Actor) (*PendingAttention, error) {
	if err := s.authz.RequireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	p, err := s.repo.PendingAttention(ctx, s.now().UTC().Add(-InactiveWindow))
	if err != nil {
		s.logger.Error("failed to load pending attention", "error", err)
		return nil, err
	}
	if p.ClubsInactive60Days < 0 {
		p.ClubsInactive60Days = 0
	}
	return p, nil
}

// Summary aggregates activity overlapping the from/to range.
func (s *Service) Summary(ctx context.Context, actor *auth.Actor, from, to string) (*Summary, error) {
	if err := s.authz.RequireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	rng, err := ParseRange(from, to)
	if err != nil {
		return nil, err
	}

	clubs, err := s.repo.EventsPerClub(ctx, rng)
	if err != nil {
		s.logger.Error("failed to count events per club", "error", err)
		return nil, err
	}
	resources, err := s.repo.BookingsPerResource(ctx, rng)
	if err != nil {
		s.logger.Error("failed to count bookings per resource", "error", err)
		return nil, err
	}
	months, err := s.repo.RegistrationsByMonth(ctx, rng)
	if err != nil {
		s.logger.Error("failed to count registrations", "error", err)
		return nil, err
	}
	totals, err := s.repo.CatalogTotals(ctx)
	if err != nil {
		s.logger.Error("failed to count catalog", "error", err)
		return nil, err
	}

	for _, r := range resources {
		totals.TotalBookings += r.Count
	}
	for _, m := range months {
		totals.TotalRegistrations += m.Count
	}

	return &Summary{
		EventsPerClub:        nonNil(clubs),
		BookingsPerResource:  nonNil(resources),
		ParticipationByMonth: nonNil(months),
		Totals:               *totals,
	}, nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
