// Package styles holds the terminal palette and the shared lipgloss styles.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	Primary   = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	Secondary = lipgloss.AdaptiveColor{Light: "#0E7C86", Dark: "#4FD1C5"}
	Highlight = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#FAFAFA"}
	Surface   = lipgloss.AdaptiveColor{Light: "#E8E8F4", Dark: "#2A2A3C"}
	Border    = lipgloss.AdaptiveColor{Light: "#C4C4D4", Dark: "#44445A"}
	Muted     = lipgloss.AdaptiveColor{Light: "#8A8A9A", Dark: "#7A7A8C"}
	Success   = lipgloss.AdaptiveColor{Light: "#1E8E3E", Dark: "#5AD27E"}
	Warning   = lipgloss.AdaptiveColor{Light: "#B36B00", Dark: "#F5C26B"}
	Danger    = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF6B6B"}
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Muted)
	KeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)
	ValueStyle = lipgloss.NewStyle().
			Foreground(Highlight)
	InfoStyle = lipgloss.NewStyle().
			Foreground(Secondary)
	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success)
	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger)
	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted)
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Secondary)
	HelpDescStyle = lipgloss.NewStyle().
			Foreground(Muted)
	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(Highlight).
				Background(Surface).
				Bold(true)
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)
	CellStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// RenderTitle renders a section title with an optional subtitle.
func RenderTitle(title, subtitle string) string {
	if subtitle == "" {
		return TitleStyle.Render(title)
	}
	return TitleStyle.Render(title) + " " + SubtitleStyle.Render(subtitle)
}

// StatusStyle returns the color used for a task or project status.
func StatusStyle(status string) lipgloss.Style {
	switch strings.ToLower(status) {
	case "done", "completed", "active", "on track", "on_track":
		return SuccessStyle
	case "in_progress", "in progress", "at risk", "at_risk":
		return WarningStyle
	case "overdue", "blocked", "urgent", "high":
		return ErrorStyle
	default:
		return HelpStyle
	}
}

// StatusBadge renders a compact status marker.
func StatusBadge(status string) string {
	icon := "○"
	switch strings.ToLower(status) {
	case "done", "completed":
		icon = "●"
	case "in_progress":
		icon = "◐"
	}
	return StatusStyle(status).Render(icon + " " + status)
}
