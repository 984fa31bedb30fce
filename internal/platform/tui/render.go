package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vovakirdan/tui-dandelions/internal/core"
)

// styles is indexed by core.Color. Built once at startup so concurrent
// SSH sessions can render without synchronizing.
var styles = buildStyles()

func buildStyles() [core.ColorCount]lipgloss.Style {
	var out [core.ColorCount]lipgloss.Style
	for c := core.Color(0); c < core.ColorCount; c++ {
		st := lipgloss.NewStyle()
		if code := c.ANSI(); code != "" {
			st = st.Foreground(lipgloss.Color(code))
		}
		out[c] = st
	}
	return out
}

func styleFor(c core.Color) lipgloss.Style {
	if c >= core.ColorCount {
		c = core.ColorDefault
	}
	return styles[c]
}

// RenderScreen converts a screen buffer into a styled string for display.
// Consecutive cells sharing a color are emitted as one styled run, which
// keeps the ANSI overhead low on mostly-green lawns.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			runColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != runColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(styleFor(runColor).Render(run.String()))
		}
	}
	return sb.String()
}
