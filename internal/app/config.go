package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env       string `env:"ENV" envDefault:"dev"`           // Environment (dev, staging, prod)
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`    // Log level (debug, info, warn, error)
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`   // Log format (json, text)
	Port      int    `env:"PORT" envDefault:"8080"`         // HTTP server port

	// BaseURL is the externally reachable origin used when building the
	// verification links sent in welcome mails.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	DatabaseFile string `env:"DATABASE_FILE" envDefault:"authwizard.db"` // SQLite database file

	// JWTSecret signs session tokens. Required; the process refuses to
	// start without it.
	JWTSecret       string        `env:"JWT_SECRET"`
	SessionTokenTTL time.Duration `env:"SESSION_TOKEN_TTL"` // Optional: zero issues tokens without expiry

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	// SMTP transport for outbound mail. When SMTPHost is empty, rendered
	// mails are logged instead of delivered.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"AuthWizard <auth@wizard.io>"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
