package events

import (
	"context"
	"log/slog"
)

// SideEffects is what domain services use to notify users and record audit
// entries. Neither call reports failure back to the caller.
type SideEffects interface {
	Notify(ctx context.Context, userID, title, message, category string)
	Audit(ctx context.Context, actorID, action, entityType, entityID string, metadata map[string]interface{})
}

type publisher interface {
	PublishSync(ctx context.Context, event Event) error
}

type Emitter struct {
	bus    publisher
	logger *slog.Logger
}

func NewEmitter(bus publisher, logger *slog.Logger) *Emitter {
	return &Emitter{bus: bus, logger: logger}
}

func (e *Emitter) Notify(ctx context.Context, userID, title, message, category string) {
	if err := e.bus.PublishSync(ctx, NewNotificationRequestedEvent(userID, title, message, category)); err != nil {
		e.logger.Warn("notification not delivered",
			"user_id", userID,
			"title", title,
			"error", err)
	}
}

func (e *Emitter) Audit(ctx context.Context, actorID, action, entityType, entityID string, metadata map[string]interface{}) {
	if err := e.bus.PublishSync(ctx, NewAuditRecordedEvent(actorID, action, entityType, entityID, metadata)); err != nil {
		e.logger.Warn("audit entry not recorded",
			"actor_id", actorID,
			"action", action,
			"entity_id", entityID,
			"error", err)
	}
}

// NopSideEffects drops everything.
type NopSideEffects struct{}

func (NopSideEffects) Notify(context.Context, string, string, string, string) {}

func (NopSideEffects) Audit(context.Context, string, string, string, string, map[string]interface{}) {
}
