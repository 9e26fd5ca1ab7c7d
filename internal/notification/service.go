package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/auth"
	notificationDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/notification"
	"github.com/frahmantamala/campus-ops/internal/core/events"
	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.NewNotFoundError("Not found.", errors.ErrCodeNotificationNotFound)

type RepositoryAPI interface {
	Create(ctx context.Context, n *notificationDatamodel.Notification) error
	GetByID(ctx context.Context, id string) (*notificationDatamodel.Notification, error)
	// ListByUser returns newest first. An empty category means all of them.
	ListByUser(ctx context.Context, userID, category string) ([]*notificationDatamodel.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, before *time.Time, at time.Time) (int64, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo   RepositoryAPI
	bus    publisher
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds the inbox service. bus receives NotificationCreated
// after each stored row and may be nil.
func NewService(repo RepositoryAPI, bus publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger, now: time.Now}
}

type subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

func (s *Service) Subscribe(bus subscriber) {
	bus.Subscribe(events.EventTypeNotificationRequested, s.HandleRequested)
}

// HandleRequested stores the inbox row for a NotificationRequested event.
func (s *Service) HandleRequested(ctx context.Context, e events.Event) error {
	req, ok := e.(*events.NotificationRequestedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", e, e.EventType())
	}

	category := req.Category
	if !KnownCategory(category) {
		category = events.CategorySystem
	}

	row := &notificationDatamodel.Notification{
		ID:       uuid.NewString(),
		UserID:   req.UserID,
		Type:     req.Title,
		Category: category,
		Message:  req.Message,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return err
	}
	s.logger.Debug("notification stored", "notification_id", row.ID, "user_id", row.UserID)

	if s.bus != nil {
		created := events.NewNotificationCreatedEvent(row.ID, row.UserID, req.Title, row.Message, row.Category)
		if err := s.bus.Publish(ctx, created); err != nil {
			s.logger.Warn("failed to publish notification created", "notification_id", row.ID, "error", err)
		}
	}
	return nil
}

// ListMine returns the caller's inbox. Unknown categories are ignored.
func (s *Service) ListMine(ctx context.Context, actor *auth.Actor, category string) ([]NotificationResponse, error) {
	if !KnownCategory(category) {
		category = ""
	}
	rows, err := s.repo.ListByUser(ctx, actor.ID, category)
	if err != nil {
		s.logger.Error("failed to list notifications", "actor_id", actor.ID, "error", err)
		return nil, err
	}
	out := make([]NotificationResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row).ToResponse())
	}
	return out, nil
}

func (s *Service) UnreadCount(ctx context.Context, actor *auth.Actor) (*UnreadCountResponse, error) {
	n, err := s.repo.CountUnread(ctx, actor.ID)
	if err != nil {
		s.logger.Error("failed to count unread notifications", "actor_id", actor.ID, "error", err)
		return nil, err
	}
	return &UnreadCountResponse{Count: n}, nil
}

func (s *Service) MarkRead(ctx context.Context, actor *auth.Actor, id string) (*NotificationResponse, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.UserID != actor.ID {
		return nil, errors.ErrPermissionDenied
	}

	at := s.now().UTC()
	if err := s.repo.MarkRead(ctx, id, at); err != nil {
		s.logger.Error("failed to mark notification read", "notification_id", id, "error", err)
		return nil, err
	}

	n := FromDataModel(row)
	n.Read = true
	n.ReadAt = &at
	resp := n.ToResponse()
	return &resp, nil
}

func (s *Service) MarkAllRead(ctx context.Context, actor *auth.Actor, dto MarkAllReadDTO) (*MarkAllReadResponse, error) {
	before, err := dto.Cutoff()
	if err != nil {
		return nil, err
	}
	n, err := s.repo.MarkAllRead(ctx, actor.ID, before, s.now().UTC())
	if err != nil {
		s.logger.Error("failed to mark notifications read", "actor_id", actor.ID, "error", err)
		return nil, err
	}
	return &MarkAllReadResponse{Updated: n}, nil
}

// PurgeRead deletes read notifications created before now minus retention.
func (s *Service) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().UTC().Add(-retention)
	n, err := s.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.logger.Info("read notifications purged", "deleted", n, "cutoff", cutoff)
	return n, nil
}
