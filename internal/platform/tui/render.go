package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/shapesort/internal/core"
)

// palette maps core colors to ANSI 256-color codes.
var palette = map[core.Color]string{
	core.ColorRed:     "1",
	core.ColorGreen:   "2",
	core.ColorYellow:  "3",
	core.ColorBlue:    "4",
	core.ColorMagenta: "5",
	core.ColorCyan:    "6",
	core.ColorWhite:   "7",
	core.ColorOrange:  "208",
	core.ColorGray:    "245",
}

// Renderer paints screen buffers with styles bound to one lipgloss renderer,
// so every SSH session gets the color profile of its own terminal.
type Renderer struct {
	styles map[core.Color]lipgloss.Style
}

// NewRenderer creates a renderer. A nil lipgloss renderer uses stdout's.
func NewRenderer(lr *lipgloss.Renderer) *Renderer {
	if lr == nil {
		lr = lipgloss.DefaultRenderer()
	}
	styles := make(map[core.Color]lipgloss.Style, len(palette)+1)
	styles[core.ColorDefault] = lr.NewStyle()
	for c, code := range palette {
		styles[c] = lr.NewStyle().Foreground(lipgloss.Color(code))
	}
	return &Renderer{styles: styles}
}

// Render converts a Screen buffer to a styled string.
// Adjacent cells of one color share a single escape sequence.
func (r *Renderer) Render(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			sb.WriteString(r.style(color).Render(run.String()))
		}
	}
	return sb.String()
}

func (r *Renderer) style(c core.Color) lipgloss.Style {
	if st, ok := r.styles[c]; ok {
		return st
	}
	return r.styles[core.ColorDefault]
}
