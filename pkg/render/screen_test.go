package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-arcade/pkg/entity"
	"github.com/opd-ai/go-arcade/pkg/physics"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)
	return screen
}

func TestScreenRenderer_Present(t *testing.T) {
	screen := newSimScreen(t, 8, 4)
	r := NewScreenRenderer(screen, 1)

	if w, h := r.Size(); w != 8 || h != 3 {
		t.Fatalf("Size() = (%d, %d), expected (8, 3) with a status row", w, h)
	}

	r.SetCenter(physics.Vector2D{X: 4, Y: 1.5})
	r.Clear()
	r.RenderSprite(entity.NewSprite("pad", 1, 1, 2, 1))
	r.SetStatus("tick 9")
	r.Present()

	tests := []struct {
		name     string
		x, y     int
		expected rune
	}{
		{"sprite", 1, 1, 'P'},
		{"sprite_end", 2, 1, 'P'},
		{"blank", 0, 0, ' '},
		{"status", 0, 3, 't'},
		{"status_digit", 5, 3, '9'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, _, _ := screen.GetContent(tt.x, tt.y)
			if got != tt.expected {
				t.Errorf("GetContent(%d, %d) = %q, expected %q", tt.x, tt.y, got, tt.expected)
			}
		})
	}
}

func TestScreenRenderer_Sync(t *testing.T) {
	screen := newSimScreen(t, 8, 4)
	r := NewScreenRenderer(screen, 1)

	screen.SetSize(12, 6)
	r.Sync()

	if w, h := r.Size(); w != 12 || h != 5 {
		t.Errorf("Size() = (%d, %d), expected (12, 5) after Sync()", w, h)
	}
}

func TestCellStyle(t *testing.T) {
	if cellStyle(RuneTile) == cellStyle('A') {
		t.Error("tiles and sprites should be styled differently")
	}
}
