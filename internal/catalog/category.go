package catalog

import (
	"strings"

	"github.com/gosimple/slug"
)

// CategoryMap resolves filename-derived slugs to the category names the
// database schema uses. Dataset files are named after the synonym their
// source site uses (graphics_card.csv, memory.csv, ...).
var CategoryMap = map[string]string{
	"cpu":           "CPU",
	"processor":     "CPU",
	"gpu":           "GPU",
	"graphics_card": "GPU",
	"video_card":    "GPU",
	"ram":           "RAM",
	"memory":        "RAM",
	"motherboard":   "MOTHERBOARD",
	"mobo":          "MOTHERBOARD",
	"storage":       "STORAGE",
	"ssd":           "STORAGE",
	"hdd":           "STORAGE",
	"psu":           "PSU",
	"power_supply":  "PSU",
	"case":          "CASE",
	"chassis":       "CASE",
}

// NormalizeCategory derives the category for a dataset file from its
// filename stem. The stem is slugified with underscores and resolved through
// CategoryMap; unmapped slugs fall back to the uppercased slug.
func NormalizeCategory(name string) string {
	s := strings.ReplaceAll(slug.Make(name), "-", "_")
	if mapped, ok := CategoryMap[s]; ok {
		return mapped
	}
	return strings.ToUpper(s)
}
