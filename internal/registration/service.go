package registration

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/auth"
	eventDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/event"
	registrationDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/registration"
	userDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/user"
	"github.com/frahmantamala/campus-ops/internal/event"
	"github.com/google/uuid"
)

var (
	ErrNotPublished     = errors.NewValidationError("Only PUBLISHED events are open for registration.", errors.ErrCodeRegistrationClosed)
	ErrDeadlinePassed   = errors.NewValidationError("The registration deadline has passed.", errors.ErrCodeRegistrationClosed)
	ErrNotRegistered    = errors.NewNotFoundError("Not registered.", errors.ErrCodeNotRegistered)
	ErrEventNotFound    = event.ErrEventNotFound
	errUserNotAvailable = errors.NewInternalError("registering user could not be loaded", nil)
)

type RepositoryAPI interface {
	GetEvent(ctx context.Context, id string) (*eventDatamodel.Event, error)
	GetUser(ctx context.Context, id string) (*userDatamodel.User, error)
	// Create inserts r unless the user is already registered for the event
	// and returns the stored row either way.
	Create(ctx context.Context, r *registrationDatamodel.Registration) (*registrationDatamodel.Registration, error)
	ListByUser(ctx context.Context, userID string) ([]*registrationDatamodel.RegistrationRow, error)
	DeleteByEvent(ctx context.Context, userID, eventID string) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Register signs the actor up for a published event, snapshotting their
// department and academic year.
func (s *Service) Register(ctx context.Context, actor *auth.Actor, dto RegisterDTO) (*RegistrationResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetEvent(ctx, dto.EventID)
	if err != nil {
		return nil, err
	}
	ev := event.FromDataModel(row)
	if ev.Status != event.StatusPublished {
		return nil, ErrNotPublished
	}
	if !ev.RegistrationOpen(s.now()) {
		return nil, ErrDeadlinePassed
	}

	u, err := s.repo.GetUser(ctx, actor.ID)
	if err != nil {
		s.logger.Error("failed to load registering user", "actor_id", actor.ID, "error", err)
		return nil, errUserNotAvailable.WithCause(err)
	}

	stored, err := s.repo.Create(ctx, &registrationDatamodel.Registration{
		ID:           uuid.NewString(),
		EventID:      ev.ID,
		UserID:       actor.ID,
		Department:   u.Department,
		AcademicYear: u.AcademicYear,
	})
	if err != nil {
		s.logger.Error("failed to register", "event_id", ev.ID, "actor_id", actor.ID, "error", err)
		return nil, err
	}

	s.logger.Info("registered for event", "event_id", ev.ID, "actor_id", actor.ID)
	resp := FromDataModel(stored).ToResponse()
	resp.EventTitle = ev.Title
	resp.EventStartDate = &ev.StartDate
	return &resp, nil
}

func (s *Service) ListMine(ctx context.Context, actor *auth.Actor) ([]RegistrationResponse, error) {
	rows, err := s.repo.ListByUser(ctx, actor.ID)
	if err != nil {
		s.logger.Error("failed to list registrations", "actor_id", actor.ID, "error", err)
		return nil, err
	}
	out := make([]RegistrationResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRow(row).ToResponse())
	}
	return out, nil
}

func (s *Service) Unregister(ctx context.Context, actor *auth.Actor, eventID string) error {
	deleted, err := s.repo.DeleteByEvent(ctx, actor.ID, eventID)
	if err != nil {
		s.logger.Error("failed to unregister", "event_id", eventID, "actor_id", actor.ID, "error", err)
		return err
	}
	if !deleted {
		return ErrNotRegistered
	}
	s.logger.Info("unregistered from event", "event_id", eventID, "actor_id", actor.ID)
	return nil
}
