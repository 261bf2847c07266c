package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/soundpress/masterchain/internal/report"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FAFFF"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AFAF87"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F5F"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAF5F"))
	positionStyle = lipgloss.NewStyle().Bold(true)
)

// barGlyphs are the partial-height block characters for spectrum columns.
var barGlyphs = []rune(" ▁▂▃▄▅▆▇█")

const (
	spectrumHeight = 8
	maxSpectrum    = 64
)

// View renders the session screen.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("masterchain — "+m.fileName) + "\n\n")
	sb.WriteString(m.renderTransport() + "\n")
	sb.WriteString(m.renderSpectrum() + "\n")
	sb.WriteString(report.Settings("Settings ("+m.presetName+")", m.eng.Settings()))
	if len(m.decisions) > 0 {
		sb.WriteString("\n" + report.Decisions(m.decisions))
	}
	if m.err != nil {
		sb.WriteString("\n" + errorStyle.Render("error: "+m.err.Error()) + "\n")
	} else if m.status != "" {
		sb.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	sb.WriteString("\n" + helpStyle.Render("space play/pause · ←/→ seek · p preset · a assistant · q quit") + "\n")
	return sb.String()
}

func (m Model) renderTransport() string {
	buf := m.eng.Buffer()
	if buf == nil {
		return "no buffer loaded"
	}
	pos := m.eng.Position()
	dur := buf.Duration()

	width := m.width - 20
	if width < 10 {
		width = 40
	}
	filled := 0
	if dur > 0 {
		filled = int(pos / dur * float64(width))
		if filled > width {
			filled = width
		}
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
	return fmt.Sprintf("%s %s [%s] %s",
		positionStyle.Render(formatTime(pos)),
		m.eng.State().String(),
		barStyle.Render(bar),
		formatTime(dur))
}

func (m Model) renderSpectrum() string {
	meter := m.eng.Meter()
	if meter == nil {
		return strings.Repeat("\n", spectrumHeight)
	}
	spec := meter.Spectrum()

	cols := maxSpectrum
	if m.width > 0 && m.width-4 < cols {
		cols = m.width - 4
	}
	if cols < 8 {
		cols = 8
	}

	// Fold the bins down to the column count, keeping the per-column peak.
	binsPerCol := len(spec) / cols
	if binsPerCol < 1 {
		binsPerCol = 1
	}
	levels := make([]int, cols)
	for c := 0; c < cols; c++ {
		peak := byte(0)
		for b := c * binsPerCol; b < (c+1)*binsPerCol && b < len(spec); b++ {
			if spec[b] > peak {
				peak = spec[b]
			}
		}
		levels[c] = int(peak) * spectrumHeight * (len(barGlyphs) - 1) / 255
	}

	var sb strings.Builder
	for row := spectrumHeight - 1; row >= 0; row-- {
		line := make([]rune, cols)
		for c := 0; c < cols; c++ {
			cell := levels[c] - row*(len(barGlyphs)-1)
			if cell < 0 {
				cell = 0
			} else if cell > len(barGlyphs)-1 {
				cell = len(barGlyphs) - 1
			}
			line[c] = barGlyphs[cell]
		}
		sb.WriteString("  " + barStyle.Render(string(line)) + "\n")
	}
	return sb.String()
}

func formatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	m := int(seconds) / 60
	s := int(seconds) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
