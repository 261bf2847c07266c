// Package ui provides the Bubbletea terminal interface for interactive
// mastering: transport control, preset cycling, the assistant, and a live
// spectrum display.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/soundpress/masterchain/internal/analysis"
	"github.com/soundpress/masterchain/internal/assist"
	"github.com/soundpress/masterchain/internal/engine"
	"github.com/soundpress/masterchain/internal/params"
)

// seekStep is the arrow-key seek distance in seconds.
const seekStep = 5.0

// Model is the Bubbletea model for the mastering session.
type Model struct {
	eng      *engine.Engine
	fileName string

	presets     []params.Preset
	presetIndex int
	presetName  string

	decisions []string
	status    string
	err       error

	width  int
	height int
}

// NewModel creates the session model around a loaded engine.
func NewModel(eng *engine.Engine, fileName string) Model {
	return Model{
		eng:        eng,
		fileName:   fileName,
		presets:    params.Library(),
		presetName: "Manual",
	}
}

// Init starts the refresh loop.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles key presses and refresh ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.eng.Pause()
			return m, tea.Quit

		case " ":
			m.togglePlayback()

		case "left":
			m.seekBy(-seekStep)

		case "right":
			m.seekBy(seekStep)

		case "p":
			m.cyclePreset()

		case "a":
			m.runAssistant()
		}
	}
	return m, nil
}

func (m *Model) togglePlayback() {
	if m.eng.State() == engine.Playing {
		m.eng.Pause()
		m.status = "paused"
		return
	}
	if err := m.eng.Play(m.eng.Position(), m.eng.Settings()); err != nil {
		m.err = err
		return
	}
	m.status = "playing"
}

func (m *Model) seekBy(delta float64) {
	if err := m.eng.Seek(m.eng.Position()+delta, m.eng.Settings()); err != nil {
		m.err = err
	}
}

func (m *Model) cyclePreset() {
	m.presetIndex = (m.presetIndex + 1) % len(m.presets)
	preset := m.presets[m.presetIndex]
	m.presetName = preset.Name
	m.decisions = nil
	if err := m.eng.ApplySettings(preset.Apply()); err != nil {
		m.err = err
		return
	}
	m.status = "preset: " + preset.Name
}

func (m *Model) runAssistant() {
	buf := m.eng.Buffer()
	if buf == nil {
		return
	}
	set, logLines := assist.Recommend(analysis.ComputeMetrics(buf))
	m.decisions = logLines
	m.presetName = "Assistant"
	if err := m.eng.ApplySettings(set); err != nil {
		m.err = err
		return
	}
	m.status = "assistant settings applied"
}
