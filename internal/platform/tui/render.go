package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/neon-arcade/internal/core"
)

// styleFor returns the lipgloss style for a cell colour.
func styleFor(c core.Color) lipgloss.Style {
	code := c.ANSI256()
	if code == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code))
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Each row is emitted as runs of equally coloured cells, so a mostly
// empty board costs one escape sequence per colour change, not per cell.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		renderRow(&sb, s, y)
	}
	return sb.String()
}

func renderRow(sb *strings.Builder, s *core.Screen, y int) {
	var run []rune
	color := core.ColorDefault

	flush := func() {
		if len(run) == 0 {
			return
		}
		if color == core.ColorDefault {
			sb.WriteString(string(run))
		} else {
			sb.WriteString(styleFor(color).Render(string(run)))
		}
		run = run[:0]
	}

	for x := range s.Width() {
		cell := s.GetCell(x, y)
		if cell.Color != color {
			flush()
			color = cell.Color
		}
		run = append(run, cell.Rune)
	}
	flush()
}
