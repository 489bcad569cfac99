package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette: named constants for all ANSI 256 colors used in the CLI.
// These are the single source of truth; never use inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: project paths, layer names, fields.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "written" project status.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "skipped" record status.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for the "failed" record status (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark (✔).
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles map domain concepts to visual presentation.
var (
	// StyleNoun styles identifiable nouns (project paths, layer names, fields).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleWritten styles the "written" status.
	StyleWritten = lipgloss.NewStyle().Foreground(ColorGreen)

	// StyleSkipped styles the "skipped" status.
	StyleSkipped = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleFailed styles the "failed" status.
	StyleFailed = lipgloss.NewStyle().Foreground(ColorBoldRed)

	// StyleCheck styles the completion checkmark.
	StyleCheck = lipgloss.NewStyle().Foreground(ColorGreenCheck)

	// StyleDim styles structural chrome.
	StyleDim = lipgloss.NewStyle().Foreground(ColorDimGray)
)

// Record statuses used by the batch generator output.
const (
	StatusWritten = "written"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// StyleStatus returns the styled form of a record status.
func StyleStatus(status string) string {
	switch status {
	case StatusWritten:
		return StyleWritten.Render(status)
	case StatusSkipped:
		return StyleSkipped.Render(status)
	case StatusFailed:
		return StyleFailed.Render(status)
	default:
		return status
	}
}

// Checkmark returns the styled completion checkmark.
func Checkmark() string {
	return StyleCheck.Render("✔")
}

// Summary renders the final batch summary line.
func Summary(generated, skipped, failed int) string {
	line := fmt.Sprintf("%s %d written", Checkmark(), generated)
	if skipped > 0 {
		line += StyleDim.Render(" · ") + StyleSkipped.Render(fmt.Sprintf("%d skipped", skipped))
	}
	if failed > 0 {
		line += StyleDim.Render(" · ") + StyleFailed.Render(fmt.Sprintf("%d failed", failed))
	}
	return line
}
