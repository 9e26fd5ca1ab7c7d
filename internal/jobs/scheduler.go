package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the Runner's jobs on their cron specs. Specs carry a
// seconds field.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	logger *slog.Logger
}

func NewScheduler(runner *Runner, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithSeconds(),
		),
		runner: runner,
		logger: logger,
	}
	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	cfg := s.runner.Config()

	if _, err := s.cron.AddFunc(cfg.NotificationPurgeSpec, s.runner.PurgeReadNotifications); err != nil {
		return fmt.Errorf("register %s: %w", JobPurgeReadNotifications, err)
	}

	if cfg.AuditRetention > 0 {
		if _, err := s.cron.AddFunc(cfg.AuditPurgeSpec, s.runner.PurgeAuditLogs); err != nil {
			return fmt.Errorf("register %s: %w", JobPurgeAuditLogs, err)
		}
	}

	s.logger.Info("cron jobs registered", "count", len(s.cron.Entries()))
	return nil
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.logger.Info("starting cron scheduler")
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping cron scheduler")
	<-s.cron.Stop().Done()
	s.logger.Info("cron scheduler stopped")
}
