package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/campus-ops/internal/auth"
	auditDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/audit"
	"github.com/frahmantamala/campus-ops/internal/core/events"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	Create(ctx context.Context, log *auditDatamodel.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]*auditDatamodel.AuditLogRow, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
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

type subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

func (s *Service) Subscribe(bus subscriber) {
	bus.Subscribe(events.EventTypeAuditRecorded, s.HandleRecorded)
}

// HandleRecorded persists an AuditRecorded event with its metadata as JSON.
func (s *Service) HandleRecorded(ctx context.Context, e events.Event) error {
	rec, ok := e.(*events.AuditRecordedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", e, e.EventType())
	}

	var metadata string
	if len(rec.Metadata) > 0 {
		raw, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("encode audit metadata: %w", err)
		}
		metadata = string(raw)
	}

	row := &auditDatamodel.AuditLog{
		ID:         uuid.NewString(),
		UserID:     rec.ActorID,
		Action:     rec.Action,
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		Metadata:   metadata,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return err
	}
	s.logger.Debug("audit entry stored", "action", rec.Action, "entity_id", rec.EntityID)
	return nil
}

// ListRecent returns the newest entries for the admin dashboard.
func (s *Service) ListRecent(ctx context.Context, actor *auth.Actor) ([]EntryResponse, error) {
	if err := s.authz.RequireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListRecent(ctx, RecentLimit)
	if err != nil {
		s.logger.Error("failed to list audit log", "error", err)
		return nil, err
	}
	out := make([]EntryResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRow(row).ToResponse())
	}
	return out, nil
}

// Purge deletes entries older than retention. Zero keeps everything.
func (s *Service) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	cutoff := s.now().UTC().Add(-retention)
	n, err := s.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.logger.Info("audit log purged", "deleted", n, "cutoff", cutoff)
	return n, nil
}
