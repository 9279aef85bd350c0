// Package catalog provides the normalization logic for component-catalog
// rows: column aliasing, type coercion, stable identifier derivation, and
// attribute/tag extraction. This package has no I/O dependencies and can be
// used by any frontend.
package catalog

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Component is one physical product in the catalog.
type Component struct {
	ID            string // hex SHA-1 of category|name|product_url
	Category      string
	Name          string
	Brand         pgtype.Text
	Price         *decimal.Decimal
	PreviousPrice *decimal.Decimal
	ImageURL      pgtype.Text
	ProductURL    pgtype.Text
	InStock       bool
	StockUnits    int
	LastUpdated   time.Time
}

// Attribute is a free-form key/value pair for any normalized CSV column that
// is not one of the standard component fields. Unique per (component, key).
type Attribute struct {
	ComponentID string
	Key         string
	Value       string
}

// Tag labels a component for search. Derived from the component's brand and
// category; the database enforces uniqueness on a normalized form of the text.
type Tag struct {
	ComponentID string
	Tag         string
}

// Record bundles everything a single CSV row produces.
type Record struct {
	Component  Component
	Attributes []Attribute
	Tags       []Tag
}
