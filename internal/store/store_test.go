package store

import "testing"

func TestChunk(t *testing.T) {
	tests := []struct {
		name     string
		items    int
		size     int
		wantLens []int
	}{
		{"empty", 0, 100, nil},
		{"single partial group", 3, 100, []int{3}},
		{"exact multiple", 200, 100, []int{100, 100}},
		{"remainder group", 250, 100, []int{100, 100, 50}},
		{"size one", 3, 1, []int{1, 1, 1}},
		{"non-positive size keeps one group", 5, 0, []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int, tt.items)
			for i := range items {
				items[i] = i
			}

			groups := chunk(items, tt.size)
			if len(groups) != len(tt.wantLens) {
				t.Fatalf("chunk() returned %d groups, want %d", len(groups), len(tt.wantLens))
			}

			total := 0
			for i, g := range groups {
				if len(g) != tt.wantLens[i] {
					t.Errorf("group %d length = %d, want %d", i, len(g), tt.wantLens[i])
				}
				total += len(g)
			}
			if total != tt.items {
				t.Errorf("chunk() covered %d items, want %d", total, tt.items)
			}
		})
	}
}

func TestChunk_PreservesOrder(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}
	groups := chunk(items, 2)

	i := 0
	for _, g := range groups {
		for _, v := range g {
			if v != i {
				t.Fatalf("value at position %d = %d, want %d", i, v, i)
			}
			i++
		}
	}
}
