package tui

import (
	"github.com/charmbracelet/lipgloss"

	"decklint/internal/model"
)

var (
	ColorInk       = lipgloss.Color("#E5E9F0")
	ColorDim       = lipgloss.Color("#7A8291")
	ColorAccent    = lipgloss.Color("#88C0D0")
	ColorAccentAlt = lipgloss.Color("#81A1C1")
	ColorSuccess   = lipgloss.Color("#A3BE8C")
	ColorWarn      = lipgloss.Color("#EBCB8B")
	ColorAlert     = lipgloss.Color("#BF616A")
)

// SeverityStyle maps a severity bucket to its badge style.
func SeverityStyle(sev model.Severity) lipgloss.Style {
	switch sev {
	case model.SeverityCritical:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorAlert)
	case model.SeveritySerious:
		return lipgloss.NewStyle().Foreground(ColorAlert)
	case model.SeverityModerate:
		return lipgloss.NewStyle().Foreground(ColorWarn)
	default:
		return lipgloss.NewStyle().Foreground(ColorDim)
	}
}
