package formatter

import (
	"strings"

	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Speaker labels used in bubbles and plain-text history.
const (
	LabelUser = "You"
	LabelBot  = "AgroBot"
)

// bubbleWidth caps a bubble at roughly three quarters of the pane.
func bubbleWidth(width int) int {
	if width <= 0 {
		return 60
	}
	w := width * 3 / 4
	if w < 20 {
		w = min(width, 20)
	}
	return w
}

// Bubble renders one turn as a colored block. User bubbles are right
// aligned within width; bot bubbles are left aligned.
func Bubble(turn domain.Turn, p domain.Palette, width int) string {
	bw := bubbleWidth(width)
	body := WrapText(turn.Text, bw-2)

	style := lipgloss.NewStyle().Padding(0, 1)
	label := LabelBot
	if turn.Speaker == domain.SpeakerUser {
		label = LabelUser
		style = style.
			Background(lipgloss.Color(p.UserBackground)).
			Foreground(lipgloss.Color(p.UserForeground))
	} else {
		style = style.
			Background(lipgloss.Color(p.BotBackground)).
			Foreground(lipgloss.Color(p.BotForeground))
	}

	block := Dim(label) + "\n" + style.Render(body)
	if turn.Speaker == domain.SpeakerUser && width > 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}
	return block
}

// RenderTranscript renders every turn as a bubble separated by blank lines.
// An empty transcript renders the welcome line instead.
func RenderTranscript(turns []domain.Turn, p domain.Palette, width int, welcome string) string {
	if len(turns) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Foreground)).Render(welcome)
	}
	parts := make([]string, 0, len(turns))
	for _, t := range turns {
		parts = append(parts, Bubble(t, p, width))
	}
	return strings.Join(parts, "\n\n")
}

// FormatHistory renders a transcript as plain "Speaker: text" lines for
// terminal output outside the TUI.
func FormatHistory(turns []domain.Turn) string {
	if len(turns) == 0 {
		return Dim("No chat history.") + "\n"
	}
	var b strings.Builder
	for _, t := range turns {
		label := StyleGreen.Render(LabelBot + ":")
		if t.Speaker == domain.SpeakerUser {
			label = StyleBlue.Render(LabelUser + ":")
		}
		lines := strings.Split(t.Text, "\n")
		b.WriteString(label + " " + lines[0] + "\n")
		for _, l := range lines[1:] {
			b.WriteString("  " + l + "\n")
		}
	}
	return b.String()
}
