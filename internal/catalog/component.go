package catalog

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// ErrMissingName marks a row without the required name field.
// Such rows are dropped from the import, not reported as errors.
var ErrMissingName = errors.New("row has no name")

// ComponentID derives the stable identifier for a component as the hex SHA-1
// of "category|name|product_url". The same triple always yields the same id,
// so re-importing a file overwrites rather than duplicates.
func ComponentID(category, name, productURL string) string {
	sum := sha1.Sum([]byte(category + "|" + name + "|" + productURL))
	return hex.EncodeToString(sum[:])
}

// BuildRecord turns one raw CSV row into a component with its attributes and
// tags. now becomes the component's last_updated timestamp; callers pass a
// single value for the whole run.
//
// Returns ErrMissingName when the row lacks a name. Malformed numeric fields
// return a wrapped error so callers can skip the row and report it.
func BuildRecord(category string, header, row []string, now time.Time) (*Record, error) {
	nr := NormalizeRow(header, row)

	name := nr.Get("name")
	if name == "" {
		return nil, ErrMissingName
	}

	brand := nr.Get("brand")
	productURL := nr.Get("product_url")
	id := ComponentID(category, name, productURL)

	price, err := ParsePrice(nr.Get("price"))
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	previousPrice, err := ParsePrice(nr.Get("previous_price"))
	if err != nil {
		return nil, fmt.Errorf("previous_price: %w", err)
	}
	stockUnits, err := ParseStockUnits(nr.Get("stock_units"))
	if err != nil {
		return nil, fmt.Errorf("stock_units: %w", err)
	}

	rec := &Record{
		Component: Component{
			ID:            id,
			Category:      category,
			Name:          name,
			Brand:         ToPgText(brand),
			Price:         price,
			PreviousPrice: previousPrice,
			ImageURL:      ToPgText(nr.Get("image_url")),
			ProductURL:    ToPgText(productURL),
			InStock:       ParseInStock(nr.Get("in_stock")),
			StockUnits:    stockUnits,
			LastUpdated:   now,
		},
	}

	// Every non-standard column with a non-empty value becomes an attribute,
	// in header order for deterministic output.
	for _, key := range nr.Keys() {
		if StandardFields[key] {
			continue
		}
		value := nr.Get(key)
		if value == "" {
			continue
		}
		rec.Attributes = append(rec.Attributes, Attribute{
			ComponentID: id,
			Key:         key,
			Value:       value,
		})
	}

	// Tags are the set-union of brand and category, brand first.
	if brand != "" {
		rec.Tags = append(rec.Tags, Tag{ComponentID: id, Tag: brand})
	}
	if brand != category {
		rec.Tags = append(rec.Tags, Tag{ComponentID: id, Tag: category})
	}

	return rec, nil
}
