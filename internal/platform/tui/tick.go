// Package tui provides the Bubble Tea integration for the arcade platform.
// It handles the terminal UI loop, input mapping, and game orchestration.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// generations is shared by every model in the process, so a tick left over
// from one game can never match the generation of the next.
var generations atomic.Int64

func nextGen() int64 {
	return generations.Add(1)
}

// TickMsg is sent to trigger a game simulation tick.
// Gen identifies the timer that produced it; a model drops ticks whose
// generation it has moved past (pause, reset, leaving the game).
type TickMsg struct {
	Gen  int64
	Time time.Time
}

// tickCmd arms a single tick after interval.
func tickCmd(gen int64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}
