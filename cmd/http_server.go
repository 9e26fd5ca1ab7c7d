package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/campus-ops/api"
	"github.com/frahmantamala/campus-ops/internal/analytics"
	"github.com/frahmantamala/campus-ops/internal/audit"
	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/booking"
	"github.com/frahmantamala/campus-ops/internal/club"
	"github.com/frahmantamala/campus-ops/internal/event"
	"github.com/frahmantamala/campus-ops/internal/notification"
	"github.com/frahmantamala/campus-ops/internal/registration"
	"github.com/frahmantamala/campus-ops/internal/resource"
	"github.com/frahmantamala/campus-ops/internal/transport"
	"github.com/frahmantamala/campus-ops/internal/transport/rest"
	"github.com/frahmantamala/campus-ops/internal/user"
	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var withScheduler bool

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer()
	},
}

func init() {
	httpServerCmd.Flags().BoolVar(&withScheduler, "with-scheduler", false, "also run the maintenance jobs in this process")
}

func startHTTPServer() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, err := api.Load(context.Background()); err != nil {
		return fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	app, err := newApp(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer app.Close()

	sentryEnabled, err := initSentry(cfg.Sentry, cfg.Env)
	if err != nil {
		app.Logger.Warn("sentry disabled", "error", err)
	}
	if sentryEnabled {
		defer sentry.Flush(2 * time.Second)
	}

	if withScheduler {
		scheduler, err := newScheduler(app)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, newHandlers(app), rest.Guards{
		RBAC:     app.RBAC,
		Resolver: app.Resolver,
	}, cfg.Server.Origins())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		app.Logger.Info("starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		app.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			app.Logger.Error("server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	app.Logger.Info("server stopped")
	return nil
}

func newHandlers(app *App) rest.Handlers {
	base := transport.NewBaseHandler(app.Logger)
	return rest.Handlers{
		Health:       rest.NewHealthHandler(base, app.SQL),
		Auth:         auth.NewHandler(app.Auth),
		User:         user.NewHandler(base, app.Users),
		Club:         club.NewHandler(base, app.Clubs),
		Event:        event.NewHandler(base, app.Events),
		Resource:     resource.NewHandler(base, app.Resources),
		Booking:      booking.NewHandler(base, app.Bookings),
		Registration: registration.NewHandler(base, app.Registrations),
		Notification: notification.NewHandler(base, app.Notifications),
		Audit:        audit.NewHandler(base, app.Audit),
		Analytics:    analytics.NewHandler(base, app.Analytics),
	}
}
