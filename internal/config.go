package internal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every variable read by LoadConfigFromEnv,
// e.g. CAMPUS_DATABASE_SOURCE.
const EnvPrefix = "CAMPUS"

type Config struct {
	Env           string              `mapstructure:"env" envconfig:"ENV" default:"development"`
	Server        ServerConfig        `mapstructure:"http_server" envconfig:"HTTP_SERVER"`
	Database      DatabaseConfig      `mapstructure:"database" envconfig:"DATABASE"`
	Security      SecurityConfig      `mapstructure:"security" envconfig:"SECURITY"`
	Observability ObservabilityConfig `mapstructure:"observability" envconfig:"OBSERVABILITY"`
	Mail          MailConfig          `mapstructure:"mail" envconfig:"MAIL"`
	Jobs          JobsConfig          `mapstructure:"jobs" envconfig:"JOBS"`
	Sentry        SentryConfig        `mapstructure:"sentry" envconfig:"SENTRY"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" envconfig:"PORT" default:"8080"`
	AllowedOrigins    string        `mapstructure:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" envconfig:"READ_HEADER_TIMEOUT" default:"5s"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" envconfig:"MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME" default:"30m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" envconfig:"CONN_MAX_IDLE_TIME" default:"5m"`
	Source          string        `mapstructure:"source" envconfig:"SOURCE"`
}

type SecurityConfig struct {
	JWTSecret           string        `mapstructure:"jwt_secret" envconfig:"JWT_SECRET"`
	JWTIssuer           string        `mapstructure:"jwt_issuer" envconfig:"JWT_ISSUER" default:"campus-ops"`
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration" envconfig:"ACCESS_TOKEN_DURATION" default:"168h"`
	BCryptCost          int           `mapstructure:"bcrypt_cost" envconfig:"BCRYPT_COST" default:"10"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging" envconfig:"LOGGING"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" envconfig:"LEVEL" default:"info"`
	Format     string `mapstructure:"format" envconfig:"FORMAT" default:"json"`
	FilePath   string `mapstructure:"file_path" envconfig:"FILE_PATH"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" envconfig:"MAX_SIZE_MB" default:"100"`
	MaxBackups int    `mapstructure:"max_backups" envconfig:"MAX_BACKUPS" default:"5"`
	MaxAgeDays int    `mapstructure:"max_age_days" envconfig:"MAX_AGE_DAYS" default:"30"`
}

// MailConfig enables e-mail copies of notifications. Mail is off when
// SendGridAPIKey is empty.
type MailConfig struct {
	SendGridAPIKey string `mapstructure:"sendgrid_api_key" envconfig:"SENDGRID_API_KEY"`
	FromEmail      string `mapstructure:"from_email" envconfig:"FROM_EMAIL"`
	FromName       string `mapstructure:"from_name" envconfig:"FROM_NAME" default:"Campus Ops"`
}

func (c *MailConfig) Enabled() bool {
	return c.SendGridAPIKey != ""
}

type JobsConfig struct {
	NotificationPurgeSpec string        `mapstructure:"notification_purge_spec" envconfig:"NOTIFICATION_PURGE_SPEC" default:"0 30 3 * * *"`
	NotificationRetention time.Duration `mapstructure:"notification_retention" envconfig:"NOTIFICATION_RETENTION" default:"2160h"`
	AuditPurgeSpec        string        `mapstructure:"audit_purge_spec" envconfig:"AUDIT_PURGE_SPEC" default:"0 0 4 * * 0"`
	AuditRetention        time.Duration `mapstructure:"audit_retention" envconfig:"AUDIT_RETENTION"`
}

type SentryConfig struct {
	DSN         string  `mapstructure:"dsn" envconfig:"DSN"`
	Environment string  `mapstructure:"environment" envconfig:"ENVIRONMENT"`
	SampleRate  float64 `mapstructure:"sample_rate" envconfig:"SAMPLE_RATE" default:"1"`
}

// LoadConfigFromEnv builds the configuration from CAMPUS_* variables. It is
// used in container deployments where no config.yml is mounted.
func LoadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	return &cfg, nil
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if err := c.Mail.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("mail config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AllowedOrigins != "" {
		for _, origin := range c.Origins() {
			if origin == "*" {
				continue
			}
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins splits AllowedOrigins on commas and trims each entry.
func (c *ServerConfig) Origins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	if c.AccessTokenDuration < time.Minute {
		return errors.New("access_token_duration must be at least 1m")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 4 and 15")
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", c.Level)
	}
	if c.Format != "json" && c.Format != "text" {
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}

func (c *MailConfig) Validate() error {
	if c.Enabled() && c.FromEmail == "" {
		return errors.New("from_email is required when sendgrid_api_key is set")
	}
	return nil
}
