// Package dataset discovers and reads the category CSV files of a catalog
// dataset directory. Each file holds one component category; the category is
// derived from the filename.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pcbuilder/catalog-importer/internal/catalog"
)

// File describes one discovered dataset CSV.
type File struct {
	Path     string
	Name     string
	Category string
}

// Discover lists the .csv files in dir, sorted by name for reproducible
// ordering, with each file's category derived from its filename stem.
// A missing directory is an error; an empty one yields no files.
func Discover(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading dataset directory %s: %w", dir, err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		files = append(files, File{
			Path:     filepath.Join(dir, name),
			Name:     name,
			Category: catalog.NormalizeCategory(stem),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	return files, nil
}

// Read parses a dataset CSV and returns its header row and data rows.
// Fully empty data rows are dropped. A file with no data rows returns an
// empty slice, not an error; callers decide whether that is a warning.
func Read(path string) (header []string, rows [][]string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading csv %s: %w", filepath.Base(path), err)
	}

	records, err := parseCSV(sanitizeUTF8(data))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing csv %s: %w", filepath.Base(path), err)
	}

	if len(records) == 0 {
		return nil, nil, nil
	}

	header = records[0]
	for _, row := range records[1:] {
		if isEmptyRow(row) {
			continue
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// sanitizeUTF8 replaces invalid byte sequences so the CSV reader never sees
// broken encodings from scraped sources.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
