package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Version is the build version reported by /v1/version, overridable at link
// time with -ldflags "-X triage-server/internal/config.Version=...".
var Version = "dev"

// Global singleton so packages initialized before wiring can read config.
var globalConfig *Config

// StorageBackend selects the persistence adapter implementation. One backend
// per deployment; the blob codec stays reachable through the export/import
// endpoints regardless of the backend.
type StorageBackend string

const (
	StorageBackendFile StorageBackend = "file"
)

// Config holds all environment backed configuration for the triage console.
type Config struct {
	// HTTP Server
	HTTPPort    int `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int `env:"METRICS_PORT" envDefault:"9091"`

	// Auth
	AuthorizedEmails string `env:"AUTHORIZED_EMAILS,notEmpty"`
	AuthTokenSecret  string `env:"AUTH_TOKEN_SECRET" envDefault:"default-secret"`

	// Remote triage agent
	AgentBaseURL string        `env:"AGENT_BASE_URL,notEmpty"`
	AgentAPIKey  string        `env:"AGENT_API_KEY,notEmpty"`
	AgentTimeout time.Duration `env:"AGENT_TIMEOUT" envDefault:"120s"`

	// Persistence
	StorageBackend StorageBackend `env:"STORAGE_BACKEND" envDefault:"file"`
	StorageDir     string         `env:"STORAGE_DIR" envDefault:"./data"`

	// Patient context defaults for fresh sessions
	DefaultPatientAge    int    `env:"DEFAULT_PATIENT_AGE" envDefault:"35"`
	DefaultPatientGender string `env:"DEFAULT_PATIENT_GENDER" envDefault:"Male"`

	// Observability / Logging
	ServiceName string `env:"SERVICE_NAME" envDefault:"triage-console"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.AgentBaseURL); err != nil {
		return nil, fmt.Errorf("invalid AGENT_BASE_URL: %w", err)
	}

	if cfg.StorageBackend != StorageBackendFile {
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	if len(cfg.AllowList()) == 0 {
		return nil, errors.New("AUTHORIZED_EMAILS must contain at least one entry")
	}

	globalConfig = cfg
	return cfg, nil
}

// GetGlobal returns the last configuration loaded by Load, or nil.
func GetGlobal() *Config {
	return globalConfig
}

// AllowList returns the configured authorized emails and @domain wildcards,
// trimmed, with empty entries dropped.
func (c *Config) AllowList() []string {
	parts := strings.Split(c.AuthorizedEmails, ",")
	entries := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			entries = append(entries, trimmed)
		}
	}
	return entries
}
