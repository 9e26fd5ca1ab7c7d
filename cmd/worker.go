package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/campus-ops/internal/jobs"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the maintenance jobs",
	Long:  `Run the scheduled maintenance jobs: purging old read notifications and, when a retention is configured, old audit entries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startWorker()
	},
}

var runOnceCmd = &cobra.Command{
	Use:       "run [job]",
	Short:     "Run one maintenance job now and exit",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{jobs.JobPurgeReadNotifications, jobs.JobPurgeAuditLogs},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJobOnce(args[0])
	},
}

func newScheduler(app *App) (*jobs.Scheduler, error) {
	runner := jobs.NewRunner(app.Config.Jobs, app.Notifications, app.Audit, app.Logger)
	scheduler, err := jobs.NewScheduler(runner, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build scheduler: %w", err)
	}
	return scheduler, nil
}

func startWorker() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app, err := newApp(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer app.Close()

	scheduler, err := newScheduler(app)
	if err != nil {
		return err
	}
	scheduler.Start()
	app.Logger.Info("worker is running. Press Ctrl+C to stop.", "jobs", scheduler.Entries())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	app.Logger.Info("received signal, shutting down worker", "signal", sig)
	scheduler.Stop()
	app.Logger.Info("worker shutdown complete")
	return nil
}

func runJobOnce(name string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app, err := newApp(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer app.Close()

	runner := jobs.NewRunner(cfg.Jobs, app.Notifications, app.Audit, app.Logger)
	switch name {
	case jobs.JobPurgeReadNotifications:
		runner.PurgeReadNotifications()
	case jobs.JobPurgeAuditLogs:
		runner.PurgeAuditLogs()
	default:
		return fmt.Errorf("unknown job %q", name)
	}
	return nil
}

func init() {
	workerCmd.AddCommand(runOnceCmd)
}
