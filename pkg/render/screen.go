package render

import (
	"github.com/gdamore/tcell/v2"
)

// ScreenRenderer draws the TerminalRenderer grid onto a tcell screen, with
// the bottom row kept for a status line.
type ScreenRenderer struct {
	*TerminalRenderer
	screen tcell.Screen
	status string
}

// NewScreenRenderer sizes the grid to screen, less the status row.
func NewScreenRenderer(screen tcell.Screen, scale float64) *ScreenRenderer {
	w, h := screen.Size()
	return &ScreenRenderer{
		TerminalRenderer: NewTerminalRenderer(w, max(h-1, 0), scale),
		screen:           screen,
	}
}

// Sync resizes the grid after the screen changed size.
func (s *ScreenRenderer) Sync() {
	w, h := s.screen.Size()
	if gw, gh := s.Size(); gw != w || gh != h-1 {
		s.Resize(w, max(h-1, 0))
	}
	s.screen.Sync()
}

// SetStatus sets the text shown on the bottom row.
func (s *ScreenRenderer) SetStatus(text string) {
	s.status = text
}

// Present implements entity.Renderer.
func (s *ScreenRenderer) Present() {
	s.screen.Clear()
	for y, row := range s.buffer {
		for x, ch := range row {
			if ch != RuneEmpty {
				s.screen.SetContent(x, y, ch, nil, cellStyle(ch))
			}
		}
	}

	status := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, ch := range s.status {
		if x >= s.width {
			break
		}
		s.screen.SetContent(x, s.height, ch, nil, status)
		x++
	}
	s.screen.Show()
}

func cellStyle(ch rune) tcell.Style {
	switch ch {
	case RuneTile:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case RuneOneWay:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case RuneDecor:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case RuneCircle:
		return tcell.StyleDefault.Foreground(tcell.ColorAqua)
	}
	return tcell.StyleDefault.Foreground(tcell.ColorGreen)
}
