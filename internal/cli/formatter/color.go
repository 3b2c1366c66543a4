package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Fixed UI colors. Chat bubbles take their colors from the user's palette.
var (
	ColorGreen  = lipgloss.Color("#66bb6a")
	ColorLeaf   = lipgloss.Color("#4caf50")
	ColorYellow = lipgloss.Color("#fbc02d")
	ColorRed    = lipgloss.Color("#e53935")
	ColorBlue   = lipgloss.Color("#1e88e5")
	ColorDim    = lipgloss.Color("#90a4ae")
	ColorFg     = lipgloss.Color("#eceff1")
	ColorHeader = lipgloss.Color("#81c784")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Error renders an error line for the status bar or command output.
func Error(text string) string {
	return StyleRed.Render("Error: ") + text
}

// Warning renders a warning line.
func Warning(text string) string {
	return StyleYellow.Render("Warning: ") + text
}

// Swatch renders a two-cell block filled with the given hex color, followed
// by the color code. Empty colors render as a dim dash.
func Swatch(hex string) string {
	if hex == "" {
		return Dim("-")
	}
	block := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
	return block + " " + hex
}
