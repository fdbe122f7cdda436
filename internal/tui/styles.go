// Package tui provides terminal output components for kodarch.
//
// Styles use Lip Gloss AdaptiveColor for light/dark terminal support.
// Every status display pairs an icon with a color and text, so output stays
// readable when NO_COLOR strips the colors.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mrz1836/kodarch/internal/constants"
)

//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for headings and informational text.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}
)

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Header  lipgloss.Style
}

// NewOutputStyles creates the common output styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
	}
}

// CheckNoColor respects the NO_COLOR environment variable.
// Call this at the start of commands that output styled text.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns false if NO_COLOR is set (any value, including
// empty) or TERM=dumb. See https://no-color.org/.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// SeverityIcon returns the icon for a build log severity.
func SeverityIcon(s constants.Severity) string {
	switch s {
	case constants.SeverityError:
		return "✗"
	case constants.SeverityWarning:
		return "⚠"
	default:
		return "✓"
	}
}

// SeverityColor returns the semantic color for a build log severity.
func SeverityColor(s constants.Severity) lipgloss.AdaptiveColor {
	switch s {
	case constants.SeverityError:
		return ColorError
	case constants.SeverityWarning:
		return ColorWarning
	default:
		return ColorSuccess
	}
}

// StatusIcon returns the icon for a build status.
func StatusIcon(s constants.BuildStatus) string {
	switch s {
	case constants.BuildStatusCompleted:
		return "✓"
	case constants.BuildStatusFailed:
		return "✗"
	case constants.BuildStatusBuilding:
		return "⟳"
	default:
		return "○"
	}
}

// StatusColor returns the semantic color for a build status.
func StatusColor(s constants.BuildStatus) lipgloss.AdaptiveColor {
	switch s {
	case constants.BuildStatusCompleted:
		return ColorSuccess
	case constants.BuildStatusFailed:
		return ColorError
	case constants.BuildStatusBuilding:
		return ColorPrimary
	default:
		return ColorMuted
	}
}

// FormatStatus renders a build status as icon plus text in its color.
func FormatStatus(s constants.BuildStatus) string {
	return lipgloss.NewStyle().Foreground(StatusColor(s)).Render(StatusIcon(s) + " " + s.String())
}
