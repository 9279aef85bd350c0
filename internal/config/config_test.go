package config

import (
	"strings"
	"testing"
	"time"
)

// clearDatabaseEnv unsets every variable the database section reads so tests
// are not affected by ambient PG* settings.
func clearDatabaseEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"DATABASE_URL", "DB_URL",
		"PGHOST", "PGPORT", "PGDATABASE", "PGUSER", "PGPASSWORD",
		"DB_MAX_CONNS", "DB_MIN_CONNS", "DB_MAX_CONN_LIFETIME",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearDatabaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "localhost")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
	if cfg.Database.Name != "pcbuilder" {
		t.Errorf("Database.Name = %q, want %q", cfg.Database.Name, "pcbuilder")
	}
	if cfg.Database.User != "postgres" {
		t.Errorf("Database.User = %q, want %q", cfg.Database.User, "postgres")
	}
	if cfg.Database.Password != "" {
		t.Errorf("Database.Password = %q, want empty", cfg.Database.Password)
	}
	if cfg.Importer.DatasetDir != "dataset/csv" {
		t.Errorf("Importer.DatasetDir = %q, want %q", cfg.Importer.DatasetDir, "dataset/csv")
	}
	if cfg.Importer.ComponentBatchSize != 100 {
		t.Errorf("Importer.ComponentBatchSize = %d, want %d", cfg.Importer.ComponentBatchSize, 100)
	}
	if cfg.Importer.AttributeBatchSize != 500 {
		t.Errorf("Importer.AttributeBatchSize = %d, want %d", cfg.Importer.AttributeBatchSize, 500)
	}
	if cfg.Importer.TagBatchSize != 500 {
		t.Errorf("Importer.TagBatchSize = %d, want %d", cfg.Importer.TagBatchSize, 500)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGPORT", "5433")
	t.Setenv("DATASET_DIR", "/srv/dataset")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "db.internal")
	}
	if cfg.Database.Port != 5433 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5433)
	}
	if cfg.Importer.DatasetDir != "/srv/dataset" {
		t.Errorf("Importer.DatasetDir = %q, want %q", cfg.Importer.DatasetDir, "/srv/dataset")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("DB_URL", "postgres://localhost/alttest")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.URL != "postgres://localhost/alttest" {
		t.Errorf("Database.URL = %q, want %q", cfg.Database.URL, "postgres://localhost/alttest")
	}
}

func TestLoad_Duration(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("IMPORT_TIMEOUT", "1m30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Importer.Timeout != 90*time.Second {
		t.Errorf("Importer.Timeout = %v, want %v", cfg.Importer.Timeout, 90*time.Second)
	}
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		db   DatabaseConfig
		want string
	}{
		{
			name: "explicit URL wins",
			db:   DatabaseConfig{URL: "postgres://u:p@host/db", Host: "ignored"},
			want: "postgres://u:p@host/db",
		},
		{
			name: "assembled without password",
			db:   DatabaseConfig{Host: "localhost", Port: 5432, Name: "pcbuilder", User: "postgres"},
			want: "postgres://postgres@localhost:5432/pcbuilder",
		},
		{
			name: "assembled with password",
			db:   DatabaseConfig{Host: "db", Port: 5433, Name: "catalog", User: "loader", Password: "s3cret"},
			want: "postgres://loader:s3cret@db:5433/catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.db.DSN(); got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Port = 99999

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid port")
	}
	if !strings.Contains(err.Error(), "PGPORT") {
		t.Errorf("error should mention PGPORT: %v", err)
	}
}

func TestValidate_PortIgnoredWithExplicitURL(t *testing.T) {
	cfg := validConfig()
	cfg.Database.URL = "postgres://localhost/test"
	cfg.Database.Port = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil when URL is explicit", err)
	}
}

func TestValidate_BatchSizes(t *testing.T) {
	cfg := validConfig()
	cfg.Importer.ComponentBatchSize = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for zero batch size")
	}
	if !strings.Contains(err.Error(), "IMPORT_COMPONENT_BATCH_SIZE") {
		t.Errorf("error should mention IMPORT_COMPONENT_BATCH_SIZE: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error should mention LOG_LEVEL: %v", err)
	}
}

func TestConfigString_MasksPassword(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Password = "hunter2"

	str := cfg.String()
	if strings.Contains(str, "hunter2") {
		t.Error("String() should mask the database password")
	}
	if !strings.Contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host: "localhost", Port: 5432, Name: "pcbuilder", User: "postgres",
			MaxConns: 4, MinConns: 1, MaxConnLifetime: time.Hour,
		},
		Importer: ImporterConfig{
			DatasetDir:         "dataset/csv",
			ComponentBatchSize: 100,
			AttributeBatchSize: 500,
			TagBatchSize:       500,
			Timeout:            10 * time.Minute,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
