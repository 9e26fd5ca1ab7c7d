package booking

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/auth"
	bookingDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/booking"
	eventDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/event"
	resourceDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/resource"
	"github.com/frahmantamala/campus-ops/internal/core/events"
	"github.com/google/uuid"
)

var (
	ErrBookingNotFound  = errors.NewNotFoundError("Booking not found.", errors.ErrCodeBookingNotFound)
	ErrEventNotFound    = errors.NewNotFoundError("Event not found.", errors.ErrCodeEventNotFound)
	ErrResourceNotFound = errors.NewNotFoundError("Resource not found.", errors.ErrCodeResourceNotFound)
	ErrResourceInactive = errors.NewValidationError("Resource is inactive.", errors.ErrCodeResourceInactive)
	ErrTimeSlotConflict = errors.NewConflictError("Time slot conflict.", errors.ErrCodeTimeSlotConflict)
)

type RepositoryAPI interface {
	GetEvent(ctx context.Context, id string) (*eventDatamodel.Event, error)
	// CreateIfFree locks the resource row, hands it to admit, then inserts b
	// unless a pending or approved booking overlaps it inclusively. admit may refuse the
	// resource or adjust b before the insert.
	CreateIfFree(ctx context.Context, b *bookingDatamodel.Booking, admit func(*resourceDatamodel.Resource) error) error
	GetRow(ctx context.Context, id string) (*bookingDatamodel.BookingRow, error)
	ListPending(ctx context.Context) ([]*bookingDatamodel.BookingRow, error)
	ListByEventCreator(ctx context.Context, userID string) ([]*bookingDatamodel.BookingRow, error)
	// ApprovedOverlapping returns approved bookings on resourceID that
	// strictly overlap slot, excluding excludeID.
	ApprovedOverlapping(ctx context.Context, resourceID, excludeID string, slot Interval) ([]*bookingDatamodel.BookingRow, error)
	// ApproveIfFree approves id unless another approved booking on the same
	// resource overlaps it inclusively. The check holds the resource lock.
	ApproveIfFree(ctx context.Context, id string) error
	SetDecision(ctx context.Context, id string, approved, rejected bool, reason *string) error
}

type Authorizer interface {
	RequireAdmin(ctx context.Context, actor *auth.Actor) error
	RequireOwnerOrAdmin(ctx context.Context, actor *auth.Actor, ownerID string) error
}

type Service struct {
	repo    RepositoryAPI
	authz   Authorizer
	effects events.SideEffects
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, authz Authorizer, effects events.SideEffects, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		authz:   authz,
		effects: effects,
		logger:  logger,
	}
}

// Create books a resource for an event the actor owns. The resource policy
// decides whether the booking starts approved.
func (s *Service) Create(ctx context.Context, actor *auth.Actor, dto CreateBookingDTO) (*BookingResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ev, err := s.repo.GetEvent(ctx, dto.EventID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireOwnerOrAdmin(ctx, actor, ev.CreatedByID); err != nil {
		s.logger.Warn("booking denied", "event_id", ev.ID, "actor_id", actor.ID)
		return nil, err
	}

	b := &Booking{
		ID:         uuid.NewString(),
		ResourceID: dto.ResourceID,
		EventID:    ev.ID,
		StartTime:  dto.StartTime.UTC(),
		EndTime:    dto.EndTime.UTC(),
	}
	model := b.ToDataModel()

	var resourceName string
	err = s.repo.CreateIfFree(ctx, model, func(res *resourceDatamodel.Resource) error {
		if !res.Active {
			return ErrResourceInactive
		}
		model.Approved = Approves(res)
		resourceName = res.Name
		return nil
	})
	if err != nil {
		if _, ok := errors.IsAppError(err); !ok {
			s.logger.Error("failed to create booking", "event_id", ev.ID, "resource_id", dto.ResourceID, "error", err)
		}
		return nil, err
	}

	created := FromDataModel(model)
	created.EventTitle = ev.Title
	created.ResourceName = resourceName
	s.logger.Info("booking created", "booking_id", created.ID, "resource_id", created.ResourceID, "approved", created.Approved, "actor_id", actor.ID)

	resp := created.ToResponse()
	return &resp, nil
}

// ListPending is the admin review queue, newest first.
func (s *Service) ListPending(ctx context.Context, actor *auth.Actor) ([]BookingResponse, error) {
	if err := s.authz.RequireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListPending(ctx)
	if err != nil {
		s.logger.Error("failed to list pending bookings", "error", err)
		return nil, err
	}
	return toResponses(rows), nil
}

// ListMine returns bookings for events the actor created.
func (s *Service) ListMine(ctx context.Context, actor *auth.Actor) ([]BookingResponse, error) {
	rows, err := s.repo.ListByEventCreator(ctx, actor.ID)
	if err != nil {
		s.logger.Error("failed to list bookings", "actor_id", actor.ID, "error", err)
		return nil, err
	}
	return toResponses(rows), nil
}

// Review approves or rejects a booking. A rejection cites every approved
// booking that strictly overlaps this one.
func (s *Service) Review(ctx context.Context, actor *auth.Actor, id string, dto ReviewDTO) (*BookingResponse, error) {
	if err := s.authz.RequireAdmin(ctx, actor); err != nil {
		return nil, err
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}
	b := FromRow(row)

	if dto.Approve {
		if err := s.repo.ApproveIfFree(ctx, b.ID); err != nil {
			if _, ok := errors.IsAppError(err); !ok {
				s.logger.Error("failed to approve booking", "booking_id", b.ID, "error", err)
			} else {
				s.logger.Warn("booking approval refused", "booking_id", b.ID, "actor_id", actor.ID, "error", err)
			}
			return nil, err
		}
		b.Approved, b.Rejected, b.RejectionReason = true, false, nil
	} else {
		conflicts, err := s.repo.ApprovedOverlapping(ctx, b.ResourceID, b.ID, b.Slot())
		if err != nil {
			s.logger.Error("failed to find conflicting bookings", "booking_id", b.ID, "error", err)
			return nil, err
		}
		cited := make([]string, 0, len(conflicts))
		for _, c := range conflicts {
			cited = append(cited, FormatConflict(c.EventTitle, Interval{Start: c.StartTime, End: c.EndTime}))
		}
		reason := ComposeRejectionReason(dto.Reason, cited)
		b.Approved, b.Rejected, b.RejectionReason = false, true, &reason
		if err := s.repo.SetDecision(ctx, b.ID, false, true, &reason); err != nil {
			s.logger.Error("failed to review booking", "booking_id", b.ID, "error", err)
			return nil, err
		}
	}

	s.logger.Info("booking reviewed", "booking_id", b.ID, "actor_id", actor.ID, "approved", b.Approved)

	title := "Booking approved"
	message := fmt.Sprintf("Your booking of %s for %q was approved.", b.ResourceName, b.EventTitle)
	action := "BOOKING_APPROVED"
	var reason string
	if !dto.Approve {
		reason = *b.RejectionReason
		title = "Booking rejected"
		message = fmt.Sprintf("Your booking of %s for %q was rejected: %s", b.ResourceName, b.EventTitle, reason)
		action = "BOOKING_REJECTED"
	}
	s.effects.Notify(ctx, row.EventCreatorID, title, message, events.CategoryBookings)
	s.effects.Audit(ctx, actor.ID, action, "Booking", b.ID, map[string]interface{}{
		"approve": dto.Approve,
		"reason":  reason,
	})

	resp := b.ToResponse()
	return &resp, nil
}

func toResponses(rows []*bookingDatamodel.BookingRow) []BookingResponse {
	out := make([]BookingResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRow(row).ToResponse())
	}
	return out
}
