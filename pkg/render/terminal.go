package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode"

	"github.com/opd-ai/go-arcade/pkg/entity"
	"github.com/opd-ai/go-arcade/pkg/physics"
	"github.com/opd-ai/go-arcade/pkg/tilemap"
)

// Cell runes used by TerminalRenderer.
const (
	RuneEmpty   = ' '
	RuneTile    = '='
	RuneOneWay  = '-'
	RuneDecor   = '.'
	RuneCircle  = 'o'
	RuneUnnamed = '#'
)

// TerminalRenderer rasterizes sprites and tiles into a rune grid, one cell
// per scale world units, centred on a world position.
type TerminalRenderer struct {
	width     int
	height    int
	buffer    [][]rune
	scale     float64
	centerPos physics.Vector2D
	out       io.Writer
}

// NewTerminalRenderer creates a width x height cell renderer writing frames
// to stdout.
func NewTerminalRenderer(width, height int, scale float64) *TerminalRenderer {
	if scale <= 0 {
		scale = 1
	}
	r := &TerminalRenderer{scale: scale, out: os.Stdout}
	r.Resize(width, height)
	return r
}

// Resize reallocates the grid. Contents are cleared.
func (r *TerminalRenderer) Resize(width, height int) {
	r.width, r.height = max(width, 0), max(height, 0)
	r.buffer = make([][]rune, r.height)
	for i := range r.buffer {
		r.buffer[i] = make([]rune, r.width)
	}
	r.Clear()
}

// Size returns the grid dimensions in cells.
func (r *TerminalRenderer) Size() (int, int) { return r.width, r.height }

// SetCenter sets the world position shown in the middle of the grid.
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// FitRect centres the view on rect and picks the smallest scale that shows
// all of it.
func (r *TerminalRenderer) FitRect(rect physics.Rect) {
	r.centerPos = physics.Vector2D{X: rect.X + rect.Width/2, Y: rect.Y + rect.Height/2}
	if r.width == 0 || r.height == 0 {
		return
	}
	r.scale = math.Max(rect.Width/float64(r.width), rect.Height/float64(r.height))
	if r.scale <= 0 {
		r.scale = 1
	}
}

// SetOutput changes where Present writes frames.
func (r *TerminalRenderer) SetOutput(w io.Writer) {
	r.out = w
}

func (r *TerminalRenderer) worldToScreen(x, y float64) (float64, float64) {
	return (x-r.centerPos.X)/r.scale + float64(r.width)/2,
		(y-r.centerPos.Y)/r.scale + float64(r.height)/2
}

// cellCenter returns the world position of the middle of a cell.
func (r *TerminalRenderer) cellCenter(cx, cy int) (float64, float64) {
	return (float64(cx)+0.5-float64(r.width)/2)*r.scale + r.centerPos.X,
		(float64(cy)+0.5-float64(r.height)/2)*r.scale + r.centerPos.Y
}

// span returns the cell range [c0, c1] covered by the world rectangle. A
// rectangle smaller than a cell still covers the cell it starts in.
func (r *TerminalRenderer) span(rect physics.Rect) (x0, y0, x1, y1 int) {
	sx0, sy0 := r.worldToScreen(rect.X, rect.Y)
	sx1, sy1 := r.worldToScreen(rect.X+rect.Width, rect.Y+rect.Height)
	x0, y0 = int(math.Floor(sx0)), int(math.Floor(sy0))
	x1, y1 = int(math.Ceil(sx1))-1, int(math.Ceil(sy1))-1
	return x0, y0, max(x0, x1), max(y0, y1)
}

func (r *TerminalRenderer) set(x, y int, ch rune) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = ch
	}
}

func (r *TerminalRenderer) fillRect(rect physics.Rect, ch rune) {
	x0, y0, x1, y1 := r.span(rect)
	for y := max(y0, 0); y <= min(y1, r.height-1); y++ {
		for x := max(x0, 0); x <= min(x1, r.width-1); x++ {
			r.buffer[y][x] = ch
		}
	}
}

func (r *TerminalRenderer) fillCircle(c physics.Circle, ch rune) {
	x0, y0, x1, y1 := r.span(physics.Rect{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius, Width: c.Radius * 2, Height: c.Radius * 2})
	for y := max(y0, 0); y <= min(y1, r.height-1); y++ {
		for x := max(x0, 0); x <= min(x1, r.width-1); x++ {
			wx, wy := r.cellCenter(x, y)
			if math.Hypot(wx-c.Center.X, wy-c.Center.Y) <= c.Radius {
				r.buffer[y][x] = ch
			}
		}
	}
	sx, sy := r.worldToScreen(c.Center.X, c.Center.Y)
	r.set(int(math.Floor(sx)), int(math.Floor(sy)), ch)
}

// At returns the rune in a cell, or RuneEmpty outside the grid.
func (r *TerminalRenderer) At(x, y int) rune {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return RuneEmpty
	}
	return r.buffer[y][x]
}

// Lines returns the grid as one string per row.
func (r *TerminalRenderer) Lines() []string {
	lines := make([]string, len(r.buffer))
	for y, row := range r.buffer {
		lines[y] = string(row)
	}
	return lines
}

// Clear implements entity.Renderer.
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = RuneEmpty
		}
	}
}

// Present implements entity.Renderer.
func (r *TerminalRenderer) Present() {
	if r.out == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString("\033[H\033[2J")
	border := "+" + strings.Repeat("-", r.width) + "+\n"
	sb.WriteString(border)
	for _, line := range r.Lines() {
		sb.WriteString("|" + line + "|\n")
	}
	sb.WriteString(border)
	fmt.Fprint(r.out, sb.String())
}

// RenderSprite implements entity.Renderer. A sprite with a body is drawn
// at its body's bounds, as a disc for circles; one without is drawn at its
// own top-left box.
func (r *TerminalRenderer) RenderSprite(s *entity.Sprite) {
	if s == nil {
		return
	}
	ch := spriteRune(s)
	if b := s.Body; b != nil {
		if b.IsCircle() {
			r.fillCircle(b.Circle(), ch)
			return
		}
		r.fillRect(b.Bounds(), ch)
		return
	}
	r.fillRect(physics.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}, ch)
}

// RenderTile implements entity.Renderer. Tiles are placed with their
// layer's offset.
func (r *TerminalRenderer) RenderTile(t *tilemap.Tile) {
	if t == nil {
		return
	}
	rect := t.Bounds()
	if l := t.Layer(); l != nil {
		rect.X += l.Offset.X
		rect.Y += l.Offset.Y
	}
	r.fillRect(rect, tileRune(t))
}

func spriteRune(s *entity.Sprite) rune {
	for _, c := range s.Name {
		if unicode.IsPrint(c) && !unicode.IsSpace(c) {
			return unicode.ToUpper(c)
		}
	}
	if s.Body != nil && s.Body.IsCircle() {
		return RuneCircle
	}
	return RuneUnnamed
}

func tileRune(t *tilemap.Tile) rune {
	switch {
	case t.CollideLeft || t.CollideRight || t.CollideDown:
		return RuneTile
	case t.CollideUp:
		return RuneOneWay
	}
	return RuneDecor
}
