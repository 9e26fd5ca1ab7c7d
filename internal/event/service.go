package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/core/common/sanitize"
	eventDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/event"
	"github.com/frahmantamala/campus-ops/internal/core/events"
	"github.com/google/uuid"
)

var (
	ErrEventNotFound = errors.NewNotFoundError("Event not found.", errors.ErrCodeEventNotFound)
	ErrClubNotFound  = errors.NewNotFoundError("Club not found.", errors.ErrCodeClubNotFound)
)

type RepositoryAPI interface {
	Create(ctx context.Context, e *eventDatamodel.Event, clubIDs []string) error
	GetByID(ctx context.Context, id string) (*eventDatamodel.Event, error)
	ClubIDs(ctx context.Context, eventID string) ([]string, error)
	CountClubs(ctx context.Context, clubIDs []string) (int64, error)
	ListByCreator(ctx context.Context, userID string) ([]*eventDatamodel.Event, error)
	ListByStatus(ctx context.Context, status string, newestFirst bool) ([]*eventDatamodel.Event, error)
	// UpdateStatus writes to only if the row is still in from. It reports
	// whether a row changed.
	UpdateStatus(ctx context.Context, id, from, to string, rejectionReason *string) (bool, error)
}

// Authorizer is the subset of the auth resolver the lifecycle needs.
type Authorizer interface {
	RequireAdmin(ctx context.Context, actor *auth.Actor) error
	RequireOwnerOrAdmin(ctx context.Context, actor *auth.Actor, ownerID string) error
	RequireAnyClubRole(ctx context.Context, actor *auth.Actor, clubIDs []string, allowed ...auth.ClubRole) error
}

type Service struct {
	repo    RepositoryAPI
	authz   Authorizer
	effects events.SideEffects
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo RepositoryAPI, authz Authorizer, effects events.SideEffects, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		authz:   authz,
		effects: effects,
		logger:  logger,
		now:     time.Now,
	}
}

// Create stores a DRAFT event for at least one club the actor organizes or heads.
func (s *Service) Create(ctx context.Context, actor *auth.Actor, dto CreateEventDTO) (*EventResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	clubIDs := dedupe(dto.ClubIDs)
	if len(clubIDs) == 0 {
		return nil, errors.NewValidationFieldError("clubIds", "clubIds is required", errors.ErrCodeValidationFailed)
	}
	if err := s.authz.RequireAnyClubRole(ctx, actor, clubIDs, auth.ClubRoleOrganizer, auth.ClubRoleHead); err != nil {
		s.logger.Warn("event create denied", "actor_id", actor.ID, "club_ids", clubIDs)
		return nil, err
	}

	found, err := s.repo.CountClubs(ctx, clubIDs)
	if err != nil {
		s.logger.Error("failed to check clubs", "error", err)
		return nil, err
	}
	if found != int64(len(clubIDs)) {
		return nil, ErrClubNotFound
	}

	e := &Event{
		ID:                   uuid.NewString(),
		Title:                sanitize.PlainText(dto.Title),
		Description:          sanitize.RichText(dto.Description),
		Category:             dto.Category,
		Venue:                dto.Venue,
		StartDate:            dto.StartDate.UTC(),
		EndDate:              dto.EndDate.UTC(),
		RegistrationDeadline: utcPtr(dto.RegistrationDeadline),
		MinTeamSize:          dto.MinTeamSize,
		MaxTeamSize:          dto.MaxTeamSize,
		Fee:                  dto.Fee,
		BudgetEstimate:       dto.BudgetEstimate,
		Status:               StatusDraft,
		CreatedByID:          actor.ID,
		ClubIDs:              clubIDs,
	}

	model := e.ToDataModel()
	if err := s.repo.Create(ctx, model, clubIDs); err != nil {
		s.logger.Error("failed to create event", "actor_id", actor.ID, "error", err)
		return nil, err
	}

	created := FromDataModel(model)
	created.ClubIDs = clubIDs
	s.logger.Info("event created", "event_id", created.ID, "actor_id", actor.ID)
	resp := created.ToResponse()
	return &resp, nil
}

func (s *Service) ListMine(ctx context.Context, actor *auth.Actor) ([]EventResponse, error) {
	rows, err := s.repo.ListByCreator(ctx, actor.ID)
	if err != nil {
		s.logger.Error("failed to list events", "actor_id", actor.ID, "error", err)
		return nil, err
	}
	return toResponses(rows), nil
}

// ListPublic returns PUBLISHED events by start date.
func (s *Service) ListPublic(ctx context.Context) ([]EventResponse, error) {
	rows, err := s.repo.ListByStatus(ctx, string(StatusPublished), false)
	if err != nil {
		s.logger.Error("failed to list published events", "error", err)
		return nil, err
	}
	return toResponses(rows), nil
}

// GetPublic hides anything not yet published behind a 404.
func (s *Service) GetPublic(ctx context.Context, id string) (*EventResponse, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusPublished {
		return nil, ErrEventNotFound
	}
	resp := e.ToResponse()
	return &resp, nil
}

// ListSubmitted is the admin review queue, oldest first.
func (s *Service) ListSubmitted(ctx context.Context, actor *auth.Actor) ([]EventResponse, error) {
	if err := s.authz.RequireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByStatus(ctx, string(StatusSubmitted), false)
	if err != nil {
		s.logger.Error("failed to list submitted events", "error", err)
		return nil, err
	}
	return toResponses(rows), nil
}

func (s *Service) Get(ctx context.Context, actor *auth.Actor, id string) (*EventResponse, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireOwnerOrAdmin(ctx, actor, e.CreatedByID); err != nil {
		return nil, err
	}
	resp := e.ToResponse()
	return &resp, nil
}

func (s *Service) Submit(ctx context.Context, actor *auth.Actor, id string) (*EventResponse, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireOwnerOrAdmin(ctx, actor, e.CreatedByID); err != nil {
		return nil, err
	}
	if err := s.apply(ctx, e, ActionSubmit, nil); err != nil {
		return nil, err
	}

	s.logger.Info("event submitted", "event_id", e.ID, "actor_id", actor.ID)
	resp := e.ToResponse()
	return &resp, nil
}

// Review approves or rejects a SUBMITTED event. The creator is notified and
// the decision is audited; neither side effect can fail the review.
func (s *Service) Review(ctx context.Context, actor *auth.Actor, id string, dto ReviewDTO) (*EventResponse, error) {
	if err := s.authz.RequireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	action := ActionApprove
	var reason *string
	if !dto.Approve {
		action = ActionReject
		reason = &dto.Reason
	}
	if err := s.apply(ctx, e, action, reason); err != nil {
		return nil, err
	}

	s.logger.Info("event reviewed", "event_id", e.ID, "actor_id", actor.ID, "status", e.Status)

	title, message, auditAction := "Event approved", fmt.Sprintf("Your event %q was approved.", e.Title), "EVENT_APPROVED"
	if !dto.Approve {
		title = "Event rejected"
		message = fmt.Sprintf("Your event %q was rejected: %s", e.Title, dto.Reason)
		auditAction = "EVENT_REJECTED"
	}
	s.effects.Notify(ctx, e.CreatedByID, title, message, events.CategoryEvents)
	s.effects.Audit(ctx, actor.ID, auditAction, "Event", e.ID, map[string]interface{}{
		"approve": dto.Approve,
		"reason":  dto.Reason,
	})

	resp := e.ToResponse()
	return &resp, nil
}

func (s *Service) Publish(ctx context.Context, actor *auth.Actor, id string) (*EventResponse, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireOwnerOrAdmin(ctx, actor, e.CreatedByID); err != nil {
		return nil, err
	}
	if err := s.apply(ctx, e, ActionPublish, nil); err != nil {
		return nil, err
	}

	s.logger.Info("event published", "event_id", e.ID, "actor_id", actor.ID)
	resp := e.ToResponse()
	return &resp, nil
}

// apply runs action through the transition table and persists the result
// conditionally on the status it was read in.
func (s *Service) apply(ctx context.Context, e *Event, action Action, reason *string) error {
	to, err := Transition(e.Status, action)
	if err != nil {
		return err
	}

	updated, err := s.repo.UpdateStatus(ctx, e.ID, string(e.Status), string(to), reason)
	if err != nil {
		s.logger.Error("failed to update event status", "event_id", e.ID, "to", to, "error", err)
		return err
	}
	if !updated {
		// someone else moved it first; report against the fresh state
		current, loadErr := s.load(ctx, e.ID)
		if loadErr != nil {
			return loadErr
		}
		_, err := Transition(current.Status, action)
		if err == nil {
			err = errors.NewInvalidTransitionError(transitionErrors[action])
		}
		return err
	}

	e.Status = to
	e.RejectionReason = reason
	e.UpdatedAt = s.now().UTC()
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*Event, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e := FromDataModel(row)
	clubIDs, err := s.repo.ClubIDs(ctx, id)
	if err != nil {
		s.logger.Error("failed to load event clubs", "event_id", id, "error", err)
		return nil, err
	}
	e.ClubIDs = clubIDs
	return e, nil
}

func toResponses(rows []*eventDatamodel.Event) []EventResponse {
	out := make([]EventResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row).ToResponse())
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
