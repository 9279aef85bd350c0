// Package store persists normalized catalog records to PostgreSQL.
//
// All writes are conflict-tolerant upserts so repeated imports of the same
// dataset are no-ops beyond timestamp refreshes. Writes are grouped into
// fixed-size batches purely to bound round-trips and memory; batch size does
// not affect the observable outcome.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pcbuilder/catalog-importer/internal/catalog"
)

// ErrSchemaMissing indicates the components table does not exist.
// The schema is an external contract; the importer never creates it.
var ErrSchemaMissing = errors.New("components table does not exist; apply the schema first")

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults
}

// BatchSizes controls how many statements are queued per database round-trip.
type BatchSizes struct {
	Components int
	Attributes int
	Tags       int
}

// Store writes catalog records to the component tables.
type Store struct {
	pool    *pgxpool.Pool
	batches BatchSizes
}

// New creates a Store bound to a connection pool.
func New(pool *pgxpool.Pool, batches BatchSizes) *Store {
	return &Store{pool: pool, batches: batches}
}

const componentUpsertSQL = `
INSERT INTO components (
	id, category, name, brand, price, previous_price,
	image_url, product_url, in_stock, stock_units, last_updated
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
)
ON CONFLICT (id) DO UPDATE SET
	brand = EXCLUDED.brand,
	price = EXCLUDED.price,
	previous_price = EXCLUDED.previous_price,
	image_url = EXCLUDED.image_url,
	product_url = EXCLUDED.product_url,
	in_stock = EXCLUDED.in_stock,
	stock_units = EXCLUDED.stock_units,
	last_updated = EXCLUDED.last_updated,
	updated_at = NOW()`

const attributeUpsertSQL = `
INSERT INTO component_attributes (component_id, attribute_key, attribute_value)
VALUES ($1, $2, $3)
ON CONFLICT (component_id, attribute_key)
DO UPDATE SET attribute_value = EXCLUDED.attribute_value`

const tagInsertSQL = `
INSERT INTO component_tags (component_id, tag)
VALUES ($1, $2)
ON CONFLICT (component_id, normalized_tag) DO NOTHING`

// EnsureSchema verifies the components table exists before any writes.
// Returns ErrSchemaMissing when it does not.
func (s *Store) EnsureSchema(ctx context.Context) error {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_name = 'components'`).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking schema: %w", err)
	}
	if count == 0 {
		return ErrSchemaMissing
	}
	return nil
}

// ImportFile writes one file's worth of records inside a single transaction:
// either all three record sets commit together or none do.
func (s *Store) ImportFile(ctx context.Context, recs []catalog.Record) error {
	if len(recs) == 0 {
		return nil
	}

	components := make([]catalog.Component, 0, len(recs))
	var attributes []catalog.Attribute
	var tags []catalog.Tag
	for _, rec := range recs {
		components = append(components, rec.Component)
		attributes = append(attributes, rec.Attributes...)
		tags = append(tags, rec.Tags...)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	if err := s.upsertComponents(ctx, tx, components); err != nil {
		return err
	}
	if err := s.upsertAttributes(ctx, tx, attributes); err != nil {
		return err
	}
	if err := s.insertTags(ctx, tx, tags); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (s *Store) upsertComponents(ctx context.Context, db DBTX, components []catalog.Component) error {
	for _, group := range chunk(components, s.batches.Components) {
		batch := &pgx.Batch{}
		for _, c := range group {
			batch.Queue(componentUpsertSQL,
				c.ID,
				c.Category,
				c.Name,
				c.Brand,
				c.Price,
				c.PreviousPrice,
				c.ImageURL,
				c.ProductURL,
				c.InStock,
				c.StockUnits,
				c.LastUpdated,
			)
		}
		if err := sendBatch(ctx, db, batch); err != nil {
			return fmt.Errorf("upserting components: %w", err)
		}
	}
	return nil
}

func (s *Store) upsertAttributes(ctx context.Context, db DBTX, attributes []catalog.Attribute) error {
	for _, group := range chunk(attributes, s.batches.Attributes) {
		batch := &pgx.Batch{}
		for _, a := range group {
			batch.Queue(attributeUpsertSQL, a.ComponentID, a.Key, a.Value)
		}
		if err := sendBatch(ctx, db, batch); err != nil {
			return fmt.Errorf("upserting attributes: %w", err)
		}
	}
	return nil
}

func (s *Store) insertTags(ctx context.Context, db DBTX, tags []catalog.Tag) error {
	for _, group := range chunk(tags, s.batches.Tags) {
		batch := &pgx.Batch{}
		for _, t := range group {
			batch.Queue(tagInsertSQL, t.ComponentID, t.Tag)
		}
		if err := sendBatch(ctx, db, batch); err != nil {
			return fmt.Errorf("inserting tags: %w", err)
		}
	}
	return nil
}

// sendBatch executes every queued statement and surfaces the first error.
func sendBatch(ctx context.Context, db DBTX, batch *pgx.Batch) error {
	results := db.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("statement %d: %w", i, err)
		}
	}

	return results.Close()
}

// RunLog is one entry in the scraping_logs table, recording the outcome of
// importing a single category file.
type RunLog struct {
	Category   string
	Status     string
	Duration   time.Duration
	ItemsFound int
	Message    string
}

// RecordRun appends a run-log entry. Runs on the pool, outside the import
// transaction, so the log row survives even when a later file fails.
func (s *Store) RecordRun(ctx context.Context, entry RunLog) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scraping_logs (created_at, category, status, duration_ms, items_found, message)
		VALUES (NOW(), $1, $2, $3, $4, $5)`,
		entry.Category,
		entry.Status,
		int(entry.Duration.Milliseconds()),
		entry.ItemsFound,
		catalog.ToPgText(entry.Message),
	)
	if err != nil {
		return fmt.Errorf("recording run log: %w", err)
	}
	return nil
}

// chunk splits items into groups of at most size elements.
func chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var groups [][]T
	for len(items) > 0 {
		n := size
		if n > len(items) {
			n = len(items)
		}
		groups = append(groups, items[:n])
		items = items[n:]
	}
	return groups
}
