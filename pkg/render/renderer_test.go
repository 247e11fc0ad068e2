// pkg/render/renderer_test.go
package render

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/opd-ai/go-arcade/pkg/arcade"
	"github.com/opd-ai/go-arcade/pkg/entity"
	"github.com/opd-ai/go-arcade/pkg/logging"
	"github.com/opd-ai/go-arcade/pkg/physics"
	"github.com/opd-ai/go-arcade/pkg/tilemap"
)

func newLoggedRenderer() (*NullRenderer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewNullRenderer(logging.NewLoggerWithWriter(&buf, slog.LevelDebug)), &buf
}

func TestNullRenderer_FrameCalls(t *testing.T) {
	tests := []struct {
		name     string
		call     func(r *NullRenderer)
		expected string
	}{
		{"clear", (*NullRenderer).Clear, "Clear called"},
		{"present", (*NullRenderer).Present, "Present called"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buf := newLoggedRenderer()
			tt.call(r)
			if !strings.Contains(buf.String(), tt.expected) {
				t.Errorf("log = %q, expected it to contain %q", buf.String(), tt.expected)
			}
		})
	}
}

func TestNullRenderer_RenderSprite(t *testing.T) {
	w := arcade.NewWorld(physics.Rect{Width: 10, Height: 10}, nil)
	withBody := entity.NewSprite("ball", 1, 2, 4, 4)
	withBody.EnableBody(w).SetCircle(2, 0, 0)

	tests := []struct {
		name     string
		sprite   *entity.Sprite
		expected []string
		absent   []string
	}{
		{"nil", nil, []string{"nil sprite"}, nil},
		{"no_body", entity.NewSprite("hero", 3, 4, 1, 1), []string{`"sprite_name":"hero"`, `"x":3`}, []string{"circle"}},
		{"body", withBody, []string{`"sprite_name":"ball"`, `"circle":true`}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buf := newLoggedRenderer()
			r.RenderSprite(tt.sprite)
			out := buf.String()
			for _, s := range tt.expected {
				if !strings.Contains(out, s) {
					t.Errorf("log = %q, expected it to contain %q", out, s)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(out, s) {
					t.Errorf("log = %q, expected no %q", out, s)
				}
			}
		})
	}
}

func TestNullRenderer_RenderTile(t *testing.T) {
	l := tilemap.NewLayer(2, 2, 8, 8)
	tile := l.PutTile(7, 1, 0)

	r, buf := newLoggedRenderer()
	r.RenderTile(tile)
	r.RenderTile(nil)

	out := buf.String()
	for _, s := range []string{`"tile_index":7`, `"col":1`, "nil tile"} {
		if !strings.Contains(out, s) {
			t.Errorf("log = %q, expected it to contain %q", out, s)
		}
	}
}

func TestNullRenderer_Silent(t *testing.T) {
	var r NullRenderer
	r.Clear()
	r.RenderSprite(entity.NewSprite("x", 0, 0, 1, 1))
	NullRendererInstance.Present()
}

var _ entity.Renderer = (*NullRenderer)(nil)
