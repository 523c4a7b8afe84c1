package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the title line of each status view.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// LabelStyle is used for field names in detail views.
var LabelStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Width(14)

// SectionStyle introduces a group of lines (reviews, checks, issues).
var SectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginTop(1)

// PanelStyle wraps a whole status view.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle is used for error lines.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// StatusStyle returns a color-coded style for an issue status name or a
// pull request state. Tracker status names are free text, so matching is
// by common words.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	s := strings.ToLower(status)
	switch {
	case s == "merged":
		return base.Foreground(ColorMagenta)
	case s == "closed" || s == "declined":
		return base.Foreground(ColorGray)
	case strings.Contains(s, "done") || strings.Contains(s, "resolved"):
		return base.Foreground(ColorGreen)
	case strings.Contains(s, "review"):
		return base.Foreground(ColorMagenta)
	case strings.Contains(s, "progress"):
		return base.Foreground(ColorYellow)
	case s == "open" || strings.Contains(s, "to do"):
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}

// CountStyle colors a check count: failed red, pending yellow, passed
// green. Zero counts are dimmed.
func CountStyle(kind string, n int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if n == 0 {
		return base.Foreground(ColorGray)
	}

	switch kind {
	case "failed":
		return base.Foreground(ColorRed)
	case "pending":
		return base.Foreground(ColorYellow)
	case "passed":
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorWhite)
	}
}

// FlagStyle renders a boolean warning flag such as a merge conflict.
func FlagStyle(set bool) lipgloss.Style {
	if set {
		return lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	}
	return lipgloss.NewStyle().Foreground(ColorGreen)
}
