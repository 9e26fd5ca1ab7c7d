// Package jobs holds the maintenance work run by the worker command.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/campus-ops/internal"
)

const (
	JobPurgeReadNotifications = "purge-read-notifications"
	JobPurgeAuditLogs         = "purge-audit-logs"
)

// jobTimeout bounds a single run so a stuck query cannot pile up runs.
const jobTimeout = 5 * time.Minute

type NotificationPurger interface {
	PurgeRead(ctx context.Context, retention time.Duration) (int64, error)
}

type AuditPurger interface {
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

type Runner struct {
	cfg           internal.JobsConfig
	notifications NotificationPurger
	audit         AuditPurger
	logger        *slog.Logger
}

func NewRunner(cfg internal.JobsConfig, notifications NotificationPurger, audit AuditPurger, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, notifications: notifications, audit: audit, logger: logger}
}

func (r *Runner) Config() internal.JobsConfig {
	return r.cfg
}

func (r *Runner) PurgeReadNotifications() {
	r.run(JobPurgeReadNotifications, func(ctx context.Context) (int64, error) {
		return r.notifications.PurgeRead(ctx, r.cfg.NotificationRetention)
	})
}

// PurgeAuditLogs is a no-op while AuditRetention is zero.
func (r *Runner) PurgeAuditLogs() {
	r.run(JobPurgeAuditLogs, func(ctx context.Context) (int64, error) {
		return r.audit.Purge(ctx, r.cfg.AuditRetention)
	})
}

func (r *Runner) run(name string, fn func(ctx context.Context) (int64, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	logger := r.logger.With("job", name)
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("job panicked", "panic", fmt.Sprint(rec))
		}
	}()

	n, err := fn(ctx)
	if err != nil {
		logger.Error("job failed", "error", err, "duration", time.Since(start))
		return
	}
	logger.Info("job finished", "affected", n, "duration", time.Since(start))
}
