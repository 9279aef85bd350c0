package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pcbuilder/catalog-importer/internal/config"
	"github.com/pcbuilder/catalog-importer/internal/importer"
	"github.com/pcbuilder/catalog-importer/internal/logging"
	"github.com/pcbuilder/catalog-importer/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dsn        string
		datasetDir string
	)

	cmd := &cobra.Command{
		Use:           "importer",
		Short:         "Load the component-catalog CSV dataset into PostgreSQL",
		Long:          "Reads the category CSV files of a catalog dataset, normalizes their rows, and upserts components, attributes, and tags into the catalog database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), dsn, datasetDir)
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "PostgreSQL connection string (overrides DATABASE_URL and PG* variables)")
	cmd.Flags().StringVar(&datasetDir, "dataset-dir", "", "directory containing the category CSV files (overrides DATASET_DIR)")

	return cmd
}

func run(ctx context.Context, dsn, datasetDir string) error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flags win over environment.
	if dsn != "" {
		cfg.Database.URL = dsn
	}
	if datasetDir != "" {
		cfg.Importer.DatasetDir = datasetDir
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	logger := logging.WithFields("run_id", uuid.NewString())
	logger.Info("configuration loaded",
		"dataset_dir", cfg.Importer.DatasetDir,
		"component_batch_size", cfg.Importer.ComponentBatchSize,
		"timeout", cfg.Importer.Timeout,
	)

	// A missing dataset directory is fatal before any connection is opened.
	info, err := os.Stat(cfg.Importer.DatasetDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("dataset directory %s does not exist", cfg.Importer.DatasetDir)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("parsing database DSN: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	if u, err := url.Parse(cfg.Database.DSN()); err == nil {
		logger.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		logger.Info("connected to database")
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Importer.Timeout)
	defer cancel()

	st := store.New(pool, store.BatchSizes{
		Components: cfg.Importer.ComponentBatchSize,
		Attributes: cfg.Importer.AttributeBatchSize,
		Tags:       cfg.Importer.TagBatchSize,
	})

	if _, err := importer.New(st, cfg.Importer, logger).Run(ctx); err != nil {
		return err
	}

	return nil
}
