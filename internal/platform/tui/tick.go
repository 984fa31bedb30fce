// Package tui runs the terminal frontend: the Bubble Tea program, menu
// navigation, input mapping, and the fixed-rate simulation loop that
// drives the lawn.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a command that fires the next simulation tick.
// Rates below one tick per second fall back to the default 60.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate < 1 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
