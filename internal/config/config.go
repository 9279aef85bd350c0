// Package config provides centralized configuration management for the importer.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds all importer configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Importer ImporterConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
//
// A full connection string can be supplied via DATABASE_URL; otherwise the
// DSN is assembled from the individual PG* variables, matching the defaults
// the catalog database is provisioned with.
type DatabaseConfig struct {
	// URL is an explicit PostgreSQL connection string. Takes precedence
	// over the individual PG* settings when set.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Host is the database host (default: localhost)
	Host string `env:"PGHOST" default:"localhost"`

	// Port is the database port (default: 5432)
	Port int `env:"PGPORT" default:"5432"`

	// Name is the database name (default: pcbuilder)
	Name string `env:"PGDATABASE" default:"pcbuilder"`

	// User is the database user (default: postgres)
	User string `env:"PGUSER" default:"postgres"`

	// Password is the database password (default: empty)
	Password string `env:"PGPASSWORD"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// ImporterConfig holds dataset import settings.
type ImporterConfig struct {
	// DatasetDir is the directory containing the category CSV files (default: dataset/csv)
	DatasetDir string `env:"DATASET_DIR" default:"dataset/csv"`

	// ComponentBatchSize is the number of component upserts per batch (default: 100)
	ComponentBatchSize int `env:"IMPORT_COMPONENT_BATCH_SIZE" default:"100"`

	// AttributeBatchSize is the number of attribute upserts per batch (default: 500)
	AttributeBatchSize int `env:"IMPORT_ATTRIBUTE_BATCH_SIZE" default:"500"`

	// TagBatchSize is the number of tag inserts per batch (default: 500)
	TagBatchSize int `env:"IMPORT_TAG_BATCH_SIZE" default:"500"`

	// Timeout is the maximum duration for a full import run (default: 10m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"10m"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// DSN returns the PostgreSQL connection string. An explicit URL wins;
// otherwise the string is assembled from the individual PG* settings.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}
	return u.String()
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.URL == "" {
		if c.Database.Host == "" {
			errs = append(errs, "PGHOST must not be empty")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("PGPORT (%d) must be 1-65535", c.Database.Port))
		}
		if c.Database.Name == "" {
			errs = append(errs, "PGDATABASE must not be empty")
		}
		if c.Database.User == "" {
			errs = append(errs, "PGUSER must not be empty")
		}
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, "DB_MAX_CONNS must be positive")
	}
	if c.Database.MinConns < 0 {
		errs = append(errs, "DB_MIN_CONNS must be non-negative")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
			c.Database.MaxConns, c.Database.MinConns))
	}

	if c.Importer.DatasetDir == "" {
		errs = append(errs, "DATASET_DIR must not be empty")
	}
	if c.Importer.ComponentBatchSize <= 0 {
		errs = append(errs, "IMPORT_COMPONENT_BATCH_SIZE must be positive")
	}
	if c.Importer.AttributeBatchSize <= 0 {
		errs = append(errs, "IMPORT_ATTRIBUTE_BATCH_SIZE must be positive")
	}
	if c.Importer.TagBatchSize <= 0 {
		errs = append(errs, "IMPORT_TAG_BATCH_SIZE must be positive")
	}
	if c.Importer.Timeout <= 0 {
		errs = append(errs, "IMPORT_TIMEOUT must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Credentials are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Database: {Host: %q, Port: %d, Name: %q, User: %q, Password: [MASKED], MaxConns: %d}, ",
		c.Database.Host, c.Database.Port, c.Database.Name, c.Database.User, c.Database.MaxConns))
	b.WriteString(fmt.Sprintf("Importer: {DatasetDir: %q, ComponentBatchSize: %d, AttributeBatchSize: %d, TagBatchSize: %d}, ",
		c.Importer.DatasetDir, c.Importer.ComponentBatchSize, c.Importer.AttributeBatchSize, c.Importer.TagBatchSize))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
