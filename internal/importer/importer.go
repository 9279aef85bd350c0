// Package importer orchestrates a dataset import run: discover the category
// CSV files, normalize their rows, and persist each file in its own
// transaction. Files are processed sequentially; the run stops at the first
// file that fails to persist, leaving earlier files committed.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pcbuilder/catalog-importer/internal/catalog"
	"github.com/pcbuilder/catalog-importer/internal/config"
	"github.com/pcbuilder/catalog-importer/internal/dataset"
	"github.com/pcbuilder/catalog-importer/internal/store"
)

// Store is the persistence surface the importer needs.
type Store interface {
	EnsureSchema(ctx context.Context) error
	ImportFile(ctx context.Context, recs []catalog.Record) error
	RecordRun(ctx context.Context, entry store.RunLog) error
}

// Importer runs dataset imports against a Store.
type Importer struct {
	store  Store
	cfg    config.ImporterConfig
	logger *slog.Logger
}

// New creates an Importer.
func New(st Store, cfg config.ImporterConfig, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: st, cfg: cfg, logger: logger}
}

// Summary is the final result of an import run.
type Summary struct {
	Files        int // files imported
	FilesSkipped int // files with zero data rows
	Components   int
	Attributes   int
	Tags         int
	RowsSkipped  int // rows dropped for a missing name
	RowsFailed   int // rows dropped for malformed numeric fields
	Duration     time.Duration
}

// Run executes a full import of the configured dataset directory.
//
// The schema precondition is checked once before any file is touched. Every
// component written during the run carries the same last_updated timestamp.
// On a persistence failure the summary reflects the files committed so far.
func (im *Importer) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	if err := im.store.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	files, err := dataset.Discover(im.cfg.DatasetDir)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	if len(files) == 0 {
		im.logger.Warn("no csv files found", "dir", im.cfg.DatasetDir)
		summary.Duration = time.Since(start)
		return summary, nil
	}

	im.logger.Info("import starting", "files", len(files), "dir", im.cfg.DatasetDir)

	// One timestamp for the whole run so re-imports are comparable.
	now := time.Now().UTC()

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, fmt.Errorf("import cancelled before %s: %w", f.Name, err)
		}

		if err := im.importFile(ctx, f, now, summary); err != nil {
			summary.Duration = time.Since(start)
			return summary, fmt.Errorf("importing %s: %w", f.Name, err)
		}
	}

	summary.Duration = time.Since(start)
	im.logger.Info("import complete",
		"files", summary.Files,
		"files_skipped", summary.FilesSkipped,
		"components", summary.Components,
		"attributes", summary.Attributes,
		"tags", summary.Tags,
		"rows_skipped", summary.RowsSkipped,
		"rows_failed", summary.RowsFailed,
		"duration", summary.Duration,
	)

	return summary, nil
}

// importFile reads, normalizes, and persists one category file, accumulating
// its counts into the run summary.
func (im *Importer) importFile(ctx context.Context, f dataset.File, now time.Time, summary *Summary) error {
	fileStart := time.Now()
	logger := im.logger.With("file", f.Name, "category", f.Category)

	header, rows, err := dataset.Read(f.Path)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		logger.Warn("empty file, skipping")
		summary.FilesSkipped++
		return nil
	}

	recs := make([]catalog.Record, 0, len(rows))
	for i, row := range rows {
		rec, err := catalog.BuildRecord(f.Category, header, row, now)
		if err != nil {
			if errors.Is(err, catalog.ErrMissingName) {
				// Required-field policy: dropped without per-row noise.
				summary.RowsSkipped++
				continue
			}
			summary.RowsFailed++
			logger.Warn("skipping row", "line", i+2, "error", err)
			continue
		}
		recs = append(recs, *rec)
	}

	if err := im.store.ImportFile(ctx, recs); err != nil {
		im.recordRun(ctx, logger, store.RunLog{
			Category:   f.Category,
			Status:     "failed",
			Duration:   time.Since(fileStart),
			ItemsFound: len(recs),
			Message:    err.Error(),
		})
		return err
	}

	attributes, tags := 0, 0
	for _, rec := range recs {
		attributes += len(rec.Attributes)
		tags += len(rec.Tags)
	}
	summary.Files++
	summary.Components += len(recs)
	summary.Attributes += attributes
	summary.Tags += tags

	logger.Info("imported file",
		"components", len(recs),
		"attributes", attributes,
		"tags", tags,
		"duration", time.Since(fileStart),
	)

	im.recordRun(ctx, logger, store.RunLog{
		Category:   f.Category,
		Status:     "success",
		Duration:   time.Since(fileStart),
		ItemsFound: len(recs),
		Message:    f.Name,
	})

	return nil
}

// recordRun writes a run-log row. Failures are logged, not fatal: the log
// table is observability, not part of the import contract.
func (im *Importer) recordRun(ctx context.Context, logger *slog.Logger, entry store.RunLog) {
	if err := im.store.RecordRun(ctx, entry); err != nil {
		logger.Warn("failed to record run log", "error", err)
	}
}
