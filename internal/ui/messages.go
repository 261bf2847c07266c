package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg drives the periodic position and spectrum refresh.
type tickMsg time.Time

// refreshInterval keeps the spectrum fluid without saturating the terminal.
const refreshInterval = 100 * time.Millisecond

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
