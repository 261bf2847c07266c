// Package report renders mastering settings and assistant decisions as
// aligned terminal tables.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/soundpress/masterchain/internal/params"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FAFFF"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	valueStyle  = lipgloss.NewStyle().Bold(true)
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AFAF87"))
)

// Row is one label/value line in a settings table.
type Row struct {
	Label string
	Value string
	Unit  string
}

// SettingsRows flattens a parameter set into display rows, chain order.
func SettingsRows(set params.ParameterSet) []Row {
	rows := []Row{
		{"Master gain", fmt.Sprintf("%.3f", set.MasterGain), "+unity"},
		{"Saturation", fmt.Sprintf("%.2f", set.Saturation), ""},
		{"Body", fmt.Sprintf("%.1f", set.Body), "dB"},
		{"Air", fmt.Sprintf("%.1f", set.Air), "dB"},
		{"Dynamic bass", fmt.Sprintf("%.1f", set.DynamicBass), "dB"},
		{"Stereo width", fmt.Sprintf("%.2f", set.StereoWidth), ""},
		{"Stereo bass", fmt.Sprintf("%.1f", set.StereoBass), "dB"},
		{"Comp threshold", fmt.Sprintf("%.1f", set.Compressor.Threshold), "dB"},
		{"Comp ratio", fmt.Sprintf("%.1f:1", set.Compressor.Ratio), ""},
		{"Comp attack", fmt.Sprintf("%.0f", set.Compressor.Attack*1000), "ms"},
		{"Comp release", fmt.Sprintf("%.0f", set.Compressor.Release*1000), "ms"},
		{"Reverb mix", fmt.Sprintf("%.2f", set.Reverb.Mix), ""},
		{"Reverb decay", fmt.Sprintf("%.1f", set.Reverb.Decay), "s"},
		{"Ceiling", fmt.Sprintf("%.1f", set.Ceiling), "dB"},
		{"Soft clip", fmt.Sprintf("%.2f", set.SoftClip), ""},
	}
	for _, band := range set.SortedEQ() {
		if band.Gain == 0 {
			continue
		}
		rows = append(rows, Row{
			Label: fmt.Sprintf("EQ %s", formatHz(band.Frequency)),
			Value: fmt.Sprintf("%+.1f", band.Gain),
			Unit:  "dB",
		})
	}
	return rows
}

// Settings renders the full parameter table.
func Settings(title string, set params.ParameterSet) string {
	rows := SettingsRows(set)
	width := 0
	for _, r := range rows {
		if len(r.Label) > width {
			width = len(r.Label)
		}
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(title))
	sb.WriteByte('\n')
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("  %s  %s",
			labelStyle.Render(fmt.Sprintf("%-*s", width, r.Label)),
			valueStyle.Render(fmt.Sprintf("%8s", r.Value))))
		if r.Unit != "" {
			sb.WriteString(" " + labelStyle.Render(r.Unit))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Decisions renders the assistant's decision log.
func Decisions(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Assistant decisions"))
	sb.WriteByte('\n')
	for _, line := range lines {
		sb.WriteString("  " + noteStyle.Render("· "+line) + "\n")
	}
	return sb.String()
}

func formatHz(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.3gk", hz/1000)
	}
	return fmt.Sprintf("%g", hz)
}
