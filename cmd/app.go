package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/analytics"
	analyticsPostgres "github.com/frahmantamala/campus-ops/internal/analytics/postgres"
	"github.com/frahmantamala/campus-ops/internal/audit"
	auditPostgres "github.com/frahmantamala/campus-ops/internal/audit/postgres"
	"github.com/frahmantamala/campus-ops/internal/auth"
	authPostgres "github.com/frahmantamala/campus-ops/internal/auth/postgres"
	"github.com/frahmantamala/campus-ops/internal/booking"
	bookingPostgres "github.com/frahmantamala/campus-ops/internal/booking/postgres"
	"github.com/frahmantamala/campus-ops/internal/club"
	clubPostgres "github.com/frahmantamala/campus-ops/internal/club/postgres"
	"github.com/frahmantamala/campus-ops/internal/core/events"
	"github.com/frahmantamala/campus-ops/internal/event"
	eventPostgres "github.com/frahmantamala/campus-ops/internal/event/postgres"
	"github.com/frahmantamala/campus-ops/internal/mailer"
	mailerPostgres "github.com/frahmantamala/campus-ops/internal/mailer/postgres"
	"github.com/frahmantamala/campus-ops/internal/notification"
	notificationPostgres "github.com/frahmantamala/campus-ops/internal/notification/postgres"
	"github.com/frahmantamala/campus-ops/internal/registration"
	registrationPostgres "github.com/frahmantamala/campus-ops/internal/registration/postgres"
	"github.com/frahmantamala/campus-ops/internal/resource"
	resourcePostgres "github.com/frahmantamala/campus-ops/internal/resource/postgres"
	"github.com/frahmantamala/campus-ops/internal/user"
	userPostgres "github.com/frahmantamala/campus-ops/internal/user/postgres"
	"github.com/frahmantamala/campus-ops/pkg/logger"
	"github.com/getsentry/sentry-go"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// App is the wired service graph shared by the server, worker and notify
// commands.
type App struct {
	Config *internal.Config
	Logger *slog.Logger
	SQL    *sqlx.DB
	Gorm   *gorm.DB
	Bus    *events.EventBus

	Resolver      *auth.Resolver
	RBAC          *auth.RBACAuthorization
	Auth          *auth.Service
	Users         *user.Service
	Clubs         *club.Service
	Events        *event.Service
	Resources     *resource.Service
	Bookings      *booking.Service
	Registrations *registration.Service
	Notifications *notification.Service
	Audit         *audit.Service
	Analytics     *analytics.Service
}

func newApp(cfg *internal.Config) (*App, error) {
	lg := logger.LoggerWrapper()

	sqlDB, err := initDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	gormDB, err := initGorm(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	bus := events.NewEventBus(lg)
	emitter := events.NewEmitter(bus, lg)

	resolver := auth.NewResolver(authPostgres.NewMembershipStore(sqlDB))
	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, cfg.Security.AccessTokenDuration)

	app := &App{
		Config:   cfg,
		Logger:   lg,
		SQL:      sqlDB,
		Gorm:     gormDB,
		Bus:      bus,
		Resolver: resolver,
		RBAC:     auth.NewRBACAuthorization(resolver, lg),

		Auth:          auth.NewService(authPostgres.NewRepository(gormDB), tokens, cfg.Security.BCryptCost, lg),
		Users:         user.NewService(userPostgres.NewUserRepository(gormDB), lg),
		Clubs:         club.NewService(clubPostgres.NewClubRepository(gormDB), resolver, emitter, lg),
		Events:        event.NewService(eventPostgres.NewEventRepository(gormDB), resolver, emitter, lg),
		Resources:     resource.NewService(resourcePostgres.NewResourceRepository(gormDB), resolver, emitter, lg),
		Bookings:      booking.NewService(bookingPostgres.NewBookingRepository(gormDB), resolver, emitter, lg),
		Registrations: registration.NewService(registrationPostgres.NewRegistrationRepository(gormDB), lg),
		Notifications: notification.NewService(notificationPostgres.NewNotificationRepository(gormDB), bus, lg),
		Audit:         audit.NewService(auditPostgres.NewAuditRepository(gormDB), resolver, lg),
		Analytics:     analytics.NewService(analyticsPostgres.NewStore(sqlDB), resolver, lg),
	}

	app.Notifications.Subscribe(bus)
	app.Audit.Subscribe(bus)
	if cfg.Mail.Enabled() {
		sender := mailer.NewSendGridSender(cfg.Mail.SendGridAPIKey, cfg.Mail.FromEmail, cfg.Mail.FromName)
		mailer.NewNotifier(sender, mailerPostgres.NewRecipientRepository(gormDB), lg).Subscribe(bus)
		lg.Info("mail delivery enabled", "from", cfg.Mail.FromEmail)
	}

	return app, nil
}

const drainTimeout = 10 * time.Second

// Close lets in-flight event handlers (mail delivery) finish before the pool
// goes away.
func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := a.Bus.Drain(ctx); err != nil {
		a.Logger.Warn("event handlers still running at shutdown", "error", err)
	}
	if err := a.SQL.Close(); err != nil {
		a.Logger.Error("database close error", "error", err)
	}
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	db, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return db, nil
}

// initGorm shares the sqlx pool with gorm so both see one set of connections.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return gormDB, nil
}

// initSentry reports whether a client was installed. Recovery only forwards
// panics when it was.
func initSentry(cfg internal.SentryConfig, env string) (bool, error) {
	if cfg.DSN == "" {
		return false, nil
	}
	environment := cfg.Environment
	if environment == "" {
		environment = env
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: environment,
		SampleRate:  cfg.SampleRate,
	})
	if err != nil {
		return false, fmt.Errorf("failed to init sentry: %w", err)
	}
	return true, nil
}
