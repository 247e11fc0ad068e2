package tilemap

import "testing"

func newFloor(t *testing.T) *Layer {
	t.Helper()
	l := NewLayer(4, 3, 16, 16)
	l.FillFromRows([][]int{
		{-1, -1, -1, -1},
		{-1, 2, -1, -1},
		{1, 1, 1, 1},
	}, Empty)
	l.SetCollision(true, 1, 2)
	return l
}

func TestLayer_GetTiles(t *testing.T) {
	l := newFloor(t)

	tests := []struct {
		name     string
		x, y     float64
		w, h     float64
		expected int
	}{
		{"single_cell", 2, 34, 4, 4, 1},
		{"touching_edge_excluded", 16, 32, 16, 16, 1},
		{"spans_row", 0, 32, 64, 16, 4},
		{"empty_cells_skipped", 0, 0, 64, 16, 0},
		{"clipped_to_layer", -100, 32, 1000, 100, 4},
		{"outside", 200, 200, 10, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.GetTiles(tt.x, tt.y, tt.w, tt.h)
			if len(got) != tt.expected {
				t.Errorf("GetTiles() returned %d tiles, expected %d", len(got), tt.expected)
			}
			for _, tile := range got {
				if !tile.Intersects(tt.x, tt.y, tt.x+tt.w, tt.y+tt.h) {
					t.Errorf("tile (%d,%d) does not intersect the query", tile.X, tile.Y)
				}
			}
		})
	}
}

func TestLayer_CalculateFaces(t *testing.T) {
	l := newFloor(t)

	tests := []struct {
		name                     string
		x, y                     int
		top, bottom, left, right bool
	}{
		{"floor_left_end", 0, 2, true, true, true, false},
		{"floor_under_block", 1, 2, false, true, false, false},
		{"floor_right_end", 3, 2, true, true, false, true},
		{"floating_block", 1, 1, true, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := l.TileAt(tt.x, tt.y)
			if tile == nil {
				t.Fatalf("TileAt(%d, %d) = nil", tt.x, tt.y)
			}
			if tile.FaceTop != tt.top || tile.FaceBottom != tt.bottom ||
				tile.FaceLeft != tt.left || tile.FaceRight != tt.right {
				t.Errorf("faces (top,bottom,left,right) = (%v,%v,%v,%v), expected (%v,%v,%v,%v)",
					tile.FaceTop, tile.FaceBottom, tile.FaceLeft, tile.FaceRight,
					tt.top, tt.bottom, tt.left, tt.right)
			}
		})
	}
}

func TestLayer_FacesFollowCollisionChanges(t *testing.T) {
	l := newFloor(t)

	l.TileAt(1, 1).ResetCollision()
	if !l.TileAt(1, 2).FaceTop {
		t.Error("removing collision above should expose the floor's top face")
	}

	l.RemoveTile(2, 2)
	if !l.TileAt(1, 2).FaceRight || !l.TileAt(3, 2).FaceLeft {
		t.Error("removing a floor tile should expose both neighbouring faces")
	}

	placed := l.PutTile(1, 2, 2)
	if placed.Collides() {
		t.Error("PutTile should start non-colliding")
	}
	placed.SetCollision(true, true, true, true)
	if l.TileAt(1, 2).FaceRight || l.TileAt(3, 2).FaceLeft || placed.FaceLeft {
		t.Error("shared edges should be culled once the new tile collides")
	}
}

func TestLayer_SetCollisionVariants(t *testing.T) {
	tests := []struct {
		name     string
		apply    func(l *Layer)
		expected map[int]bool
	}{
		{"by_index", func(l *Layer) { l.SetCollision(true, 3) }, map[int]bool{1: false, 3: true, 5: false}},
		{"between", func(l *Layer) { l.SetCollisionBetween(2, 4, true) }, map[int]bool{1: false, 3: true, 5: false}},
		{"by_exclusion", func(l *Layer) { l.SetCollisionByExclusion([]int{3}, true) }, map[int]bool{1: true, 3: false, 5: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLayer(3, 1, 8, 8)
			l.FillFromRows([][]int{{1, 3, 5}}, Empty)
			tt.apply(l)
			l.Tiles(func(tile *Tile) {
				if tile.Collides() != tt.expected[tile.Index] {
					t.Errorf("tile %d Collides() = %v, expected %v", tile.Index, tile.Collides(), tt.expected[tile.Index])
				}
			})
		})
	}
}

func TestLayer_Callbacks(t *testing.T) {
	l := newFloor(t)
	tileFn := func(any, *Tile) bool { return true }
	indexFn := func(any, *Tile) bool { return false }

	l.SetTileIndexCallback(indexFn, 2)
	l.SetTileLocationCallback(0, 2, 2, 1, tileFn)
	l.SetCollisionCallback(tileFn)

	if l.TileAt(1, 1).IndexCallback() == nil {
		t.Error("index callback not reachable from tile")
	}
	if l.TileAt(0, 2).Callback == nil || l.TileAt(1, 2).Callback == nil {
		t.Error("location callback not applied to the rectangle")
	}
	if l.TileAt(2, 2).Callback != nil {
		t.Error("location callback leaked outside the rectangle")
	}
	if l.TileAt(3, 2).LayerCallback() == nil {
		t.Error("layer callback not reachable from tile")
	}

	l.SetTileIndexCallback(nil, 2)
	if l.TileAt(1, 1).IndexCallback() != nil {
		t.Error("nil callback should remove the registration")
	}
}

func TestLayer_OneWayPlatform(t *testing.T) {
	l := NewLayer(2, 1, 16, 16)
	l.FillFromRows([][]int{{4, 4}}, Empty)
	l.TileAt(0, 0).SetCollision(false, false, true, false)

	tile := l.TileAt(0, 0)
	if !tile.FaceTop || tile.FaceBottom || tile.FaceLeft || tile.FaceRight {
		t.Errorf("one-way tile faces (top,bottom,left,right) = (%v,%v,%v,%v), expected only top",
			tile.FaceTop, tile.FaceBottom, tile.FaceLeft, tile.FaceRight)
	}
	if l.TileAt(1, 0).HasFaces() {
		t.Error("non-colliding neighbour should have no faces")
	}
}
