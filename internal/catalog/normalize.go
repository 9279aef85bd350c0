package catalog

// normalize.go handles the messy reality of scraped catalog CSVs:
//   - Column names that vary per source (url/link, image/img, ...)
//   - Various stock-flag representations (yes/no, available, in stock, ...)
//   - Common CSV artifacts (BOM, Excel formula prefixes, stray quotes)

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// FieldAliases maps observed CSV column-name variants to the canonical
// component field they represent. Column names not in this table pass
// through unchanged and end up as free-form attributes.
var FieldAliases = map[string]string{
	"url":           "product_url",
	"link":          "product_url",
	"image":         "image_url",
	"img":           "image_url",
	"current_price": "price",
	"price_usd":     "price",
	"last_price":    "previous_price",
	"stock":         "in_stock",
	"available":     "in_stock",
}

// StandardFields is the set of component fields modeled as first-class
// columns. Every other normalized column becomes an attribute.
var StandardFields = map[string]bool{
	"name":           true,
	"brand":          true,
	"price":          true,
	"previous_price": true,
	"image_url":      true,
	"product_url":    true,
	"in_stock":       true,
	"stock_units":    true,
}

// NormalizeFieldName lowercases and trims a column name, then resolves it
// through the alias table.
func NormalizeFieldName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := FieldAliases[name]; ok {
		return canonical
	}
	return name
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace and UTF-8 BOM
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// NormalizedRow holds one CSV row keyed by canonical field name, preserving
// the order in which canonical names first appeared in the header.
type NormalizedRow struct {
	values map[string]string
	keys   []string
}

// NormalizeRow maps a raw CSV row through the alias table. When two columns
// resolve to the same canonical name (e.g. both url and link are present),
// the first-seen column wins.
func NormalizeRow(header, row []string) NormalizedRow {
	nr := NormalizedRow{values: make(map[string]string, len(header))}

	for i, col := range header {
		if i >= len(row) {
			break
		}
		key := NormalizeFieldName(CleanCell(col))
		if key == "" {
			continue
		}
		if _, seen := nr.values[key]; seen {
			continue
		}
		nr.keys = append(nr.keys, key)
		nr.values[key] = CleanCell(row[i])
	}

	return nr
}

// Get returns the value for a canonical field name, or "" if absent.
func (r NormalizedRow) Get(key string) string { return r.values[key] }

// Keys returns the canonical field names in first-seen header order.
func (r NormalizedRow) Keys() []string { return r.keys }

// ParseBool converts a stock-flag string to pgtype.Bool.
// Accepts the representations seen across catalog sources, including
// "available"/"in stock" and "out of stock"/"unavailable".
// Anything unrecognized is invalid.
func ParseBool(s string) pgtype.Bool {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "":
		return pgtype.Bool{Valid: false}
	case "true", "t", "1", "yes", "y", "available", "in stock":
		return pgtype.Bool{Bool: true, Valid: true}
	case "false", "f", "0", "no", "n", "out of stock", "unavailable":
		return pgtype.Bool{Bool: false, Valid: true}
	default:
		return pgtype.Bool{Valid: false}
	}
}

// ParseInStock resolves the in_stock column to its final boolean value.
// An absent or empty value means in stock, and so does text the boolean
// parser does not recognize. Only an explicit negative marks a component
// out of stock.
func ParseInStock(s string) bool {
	b := ParseBool(s)
	if !b.Valid {
		return true
	}
	return b.Bool
}

// ParsePrice parses a price column into a nullable decimal.
// An empty value is nil (NULL); anything else must parse exactly.
func ParsePrice(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return &d, nil
}

// ParseStockUnits parses the stock_units column, defaulting to 0 when empty.
func ParseStockUnits(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid stock units %q: %w", s, err)
	}
	return n, nil
}

// ToPgText converts a string to pgtype.Text.
// Returns invalid (NULL) if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}
