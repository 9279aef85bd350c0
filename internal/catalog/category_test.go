package catalog

import "testing"

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		// Mapped synonyms
		{"cpu", "CPU"},
		{"processor", "CPU"},
		{"gpu", "GPU"},
		{"graphics_card", "GPU"},
		{"video_card", "GPU"},
		{"ram", "RAM"},
		{"memory", "RAM"},
		{"motherboard", "MOTHERBOARD"},
		{"mobo", "MOTHERBOARD"},
		{"ssd", "STORAGE"},
		{"hdd", "STORAGE"},
		{"power_supply", "PSU"},
		{"chassis", "CASE"},

		// Slugification before lookup
		{"Graphics Card", "GPU"},
		{"GRAPHICS-CARD", "GPU"},
		{"  Memory ", "RAM"},

		// Unmapped slugs fall back to the uppercased slug
		{"keyboard", "KEYBOARD"},
		{"cpu cooler", "CPU_COOLER"},
		{"Thermal Paste", "THERMAL_PASTE"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeCategory(tt.input); got != tt.want {
				t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
