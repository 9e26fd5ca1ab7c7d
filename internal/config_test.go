package internal_test

import (
	"time"

	"github.com/frahmantamala/campus-ops/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validConfig() internal.Config {
	return internal.Config{
		Env: "test",
		Server: internal.ServerConfig{
			Port:              8080,
			AllowedOrigins:    "https://campus.example.edu, http://localhost:5173",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
		Database: internal.DatabaseConfig{Source: "postgres://db/campus", MaxOpenConns: 10, MaxIdleConns: 2},
		Security: internal.SecurityConfig{
			JWTSecret:           "0123456789abcdef0123456789abcdef",
			AccessTokenDuration: time.Hour,
			BCryptCost:          10,
		},
		Observability: internal.ObservabilityConfig{Logging: internal.LoggingConfig{Level: "info", Format: "json"}},
	}
}

var _ = Describe("Config", func() {
	It("accepts a complete configuration", func() {
		cfg := validConfig()
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Server.Origins()).To(Equal([]string{"https://campus.example.edu", "http://localhost:5173"}))
	})

	It("reports every broken section at once", func() {
		cfg := validConfig()
		cfg.Server.Port = 0
		cfg.Database.Source = ""
		cfg.Security.JWTSecret = "short"
		cfg.Observability.Logging.Level = "verbose"

		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(SatisfyAll(
			ContainSubstring("invalid port 0"),
			ContainSubstring("source is required"),
			ContainSubstring("jwt_secret must be at least 32 characters"),
			ContainSubstring(`unknown level "verbose"`),
		))
	})

	It("requires a sender once mail is enabled", func() {
		cfg := validConfig()
		cfg.Mail.SendGridAPIKey = "SG.key"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("from_email is required")))

		cfg.Mail.FromEmail = "noreply@campus.local"
		Expect(cfg.Validate()).To(Succeed())
	})

	It("rejects malformed origins", func() {
		cfg := validConfig()
		cfg.Server.AllowedOrigins = "not a url"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("invalid allowed origin")))
	})
})
