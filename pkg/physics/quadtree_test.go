package physics

import (
	"slices"
	"testing"
)

func TestNewQuadTree(t *testing.T) {
	qt := NewQuadTree[int](0.4, 0.6, 100, 80, 0, 0)

	if got := qt.Region(); got != (Rect{X: 0, Y: 1, Width: 100, Height: 80}) {
		t.Errorf("Region() = %v, expected rounded origin (0, 1) 100x80", got)
	}
	if qt.maxObjects != DefaultMaxObjects || qt.maxLevels != DefaultMaxLevels {
		t.Errorf("limits = %d/%d, expected defaults", qt.maxObjects, qt.maxLevels)
	}
	if qt.NodeCount() != 1 || qt.Len() != 0 {
		t.Errorf("fresh tree has %d nodes and %d items", qt.NodeCount(), qt.Len())
	}
}

func TestQuadTree_SplitsLazily(t *testing.T) {
	qt := NewQuadTree[int](0, 0, 100, 100, 2, 4)

	qt.Insert(Rect{X: 10, Y: 10, Width: 5, Height: 5}, 1)
	qt.Insert(Rect{X: 60, Y: 10, Width: 5, Height: 5}, 2)
	if qt.NodeCount() != 1 {
		t.Fatalf("tree split before exceeding capacity: %d nodes", qt.NodeCount())
	}

	qt.Insert(Rect{X: 10, Y: 60, Width: 5, Height: 5}, 3)
	if qt.NodeCount() != 5 {
		t.Fatalf("expected one split (5 nodes), got %d", qt.NodeCount())
	}
	if len(qt.nodes[0].items) != 0 {
		t.Errorf("root kept %d items that fit in quadrants", len(qt.nodes[0].items))
	}
	if qt.Depth() != 1 {
		t.Errorf("Depth() = %d, expected 1", qt.Depth())
	}
}

func TestQuadTree_StraddlersStayInParent(t *testing.T) {
	qt := NewQuadTree[string](0, 0, 100, 100, 1, 4)

	qt.Insert(Rect{X: 45, Y: 45, Width: 10, Height: 10}, "middle")
	qt.Insert(Rect{X: 10, Y: 10, Width: 5, Height: 5}, "top-left")

	if !slices.Contains(itemsAt(qt, 0), "middle") {
		t.Error("item straddling both split lines should remain in the root")
	}
}

func TestQuadTree_RespectsMaxLevels(t *testing.T) {
	qt := NewQuadTree[int](0, 0, 1024, 1024, 1, 2)
	for i := 0; i < 20; i++ {
		qt.Insert(Rect{X: 1, Y: 1, Width: 1, Height: 1}, i)
	}
	if qt.Depth() > 2 {
		t.Errorf("Depth() = %d, exceeds maxLevels 2", qt.Depth())
	}
	if qt.Len() != 20 {
		t.Errorf("Len() = %d, expected 20", qt.Len())
	}
}

func TestQuadTree_Retrieve(t *testing.T) {
	qt := NewQuadTree[string](0, 0, 100, 100, 1, 4)
	qt.Insert(Rect{X: 5, Y: 5, Width: 5, Height: 5}, "tl")
	qt.Insert(Rect{X: 80, Y: 5, Width: 5, Height: 5}, "tr")
	qt.Insert(Rect{X: 5, Y: 80, Width: 5, Height: 5}, "bl")
	qt.Insert(Rect{X: 80, Y: 80, Width: 5, Height: 5}, "br")
	qt.Insert(Rect{X: 45, Y: 45, Width: 10, Height: 10}, "center")

	t.Run("quadrant_query_prunes_siblings", func(t *testing.T) {
		got := qt.Retrieve(Rect{X: 1, Y: 1, Width: 10, Height: 10})
		if !slices.Contains(got, "tl") || !slices.Contains(got, "center") {
			t.Errorf("Retrieve() = %v, expected tl and the root straddler", got)
		}
		if slices.Contains(got, "br") || slices.Contains(got, "tr") {
			t.Errorf("Retrieve() = %v, returned items from other quadrants", got)
		}
	})

	t.Run("straddling_query_visits_all", func(t *testing.T) {
		got := qt.Retrieve(Rect{X: 40, Y: 40, Width: 20, Height: 20})
		if len(got) != 5 {
			t.Errorf("Retrieve() = %v, expected all 5 items", got)
		}
	})

	t.Run("clear_discards_items", func(t *testing.T) {
		qt.Clear()
		if got := qt.Retrieve(Rect{X: 0, Y: 0, Width: 100, Height: 100}); len(got) != 0 {
			t.Errorf("Retrieve() after Clear = %v, expected none", got)
		}
		if qt.NodeCount() != 1 || qt.Region().Width != 100 {
			t.Error("Clear should keep only the root region")
		}
	})
}

func TestQuadTree_RetrieveRegion(t *testing.T) {
	qt := NewQuadTree[string](0, 0, 100, 100, 1, 4)
	qt.Insert(Rect{X: 5, Y: 5, Width: 5, Height: 5}, "tl")
	qt.Insert(Rect{X: 80, Y: 80, Width: 5, Height: 5}, "br")
	qt.Insert(Rect{X: -30, Y: 5, Width: 5, Height: 5}, "outside")
	qt.Insert(Rect{X: 45, Y: 45, Width: 10, Height: 10}, "center")

	tests := []struct {
		name     string
		area     Rect
		expected []string
	}{
		{"exact_hit", Rect{X: 6, Y: 6, Width: 1, Height: 1}, []string{"tl"}},
		{"outside_root", Rect{X: -28, Y: 6, Width: 1, Height: 1}, []string{"outside"}},
		{"miss", Rect{X: 20, Y: 20, Width: 1, Height: 1}, nil},
		{"whole_region", Rect{X: -50, Y: -50, Width: 200, Height: 200}, []string{"br", "center", "outside", "tl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := qt.RetrieveRegion(tt.area)
			slices.Sort(got)
			if !slices.Equal(got, tt.expected) {
				t.Errorf("RetrieveRegion() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestQuadTree_ResetReusesArena(t *testing.T) {
	qt := NewQuadTree[int](0, 0, 100, 100, 1, 4)
	for i := 0; i < 16; i++ {
		qt.Insert(Rect{X: float64(i * 6), Y: float64(i * 6), Width: 2, Height: 2}, i)
	}
	nodes := cap(qt.nodes)

	qt.Reset(0, 0, 100, 100, 1, 4)
	for i := 0; i < 16; i++ {
		qt.Insert(Rect{X: float64(i * 6), Y: float64(i * 6), Width: 2, Height: 2}, i)
	}
	if cap(qt.nodes) != nodes {
		t.Errorf("node arena grew from %d to %d on identical rebuild", nodes, cap(qt.nodes))
	}
	if got := qt.Retrieve(Rect{X: 0, Y: 0, Width: 100, Height: 100}); len(got) != 16 {
		t.Errorf("Retrieve() over whole region = %d items, expected 16", len(got))
	}
}

func itemsAt[T any](qt *QuadTree[T], n int) []T {
	var out []T
	for _, e := range qt.nodes[n].items {
		out = append(out, qt.entries[e].item)
	}
	return out
}
