package formatter

import (
	"strings"
	"testing"

	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestRenderTranscript_EmptyShowsWelcome(t *testing.T) {
	out := RenderTranscript(nil, domain.DefaultTheme().Resolve(), 80, "Welcome!")
	assert.Contains(t, out, "Welcome!")
}

func TestRenderTranscript_LabelsEachSpeaker(t *testing.T) {
	turns := []domain.Turn{domain.UserTurn("hello"), domain.BotTurn("Hi there! How can I help you today?")}
	out := RenderTranscript(turns, domain.DefaultTheme().Resolve(), 80, "Welcome!")

	assert.NotContains(t, out, "Welcome!")
	assert.Contains(t, out, LabelUser)
	assert.Contains(t, out, LabelBot)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "How can I help you today?")
}

func TestBubble_UserBubbleIsRightAligned(t *testing.T) {
	out := Bubble(domain.UserTurn("hi"), domain.DefaultTheme().Resolve(), 60)
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, 60, lipgloss.Width(line))
	}
}

func TestBubble_KeepsMultilineReplies(t *testing.T) {
	reply := "7-Day Forecast for Pune:\nMonday, Jan 02: Clear sky, Day 30°C / Night 18°C"
	out := Bubble(domain.BotTurn(reply), domain.DefaultTheme().Resolve(), 120)
	assert.Contains(t, out, "7-Day Forecast for Pune:")
	assert.Contains(t, out, "Monday, Jan 02")
}

func TestFormatHistory(t *testing.T) {
	assert.Contains(t, FormatHistory(nil), "No chat history.")

	out := FormatHistory([]domain.Turn{
		domain.UserTurn("weather"),
		domain.BotTurn("line one\nline two"),
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "You:")
	assert.Contains(t, lines[1], "AgroBot:")
	assert.Equal(t, "  line two", lines[2])
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "short text", 20, "short text"},
		{"wraps", "one two three four", 9, "one two\nthree\nfour"},
		{"keeps breaks", "a\nb", 10, "a\nb"},
		{"long word", "abcdefghijkl", 5, "abcdefghijkl"},
		{"no width", "a  b", 0, "a  b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapText(tt.in, tt.width))
		})
	}
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"NAME", "BG"}, [][]string{{"dark", "#121212"}, {"forest", "#1b5e20"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[2], "#"), strings.Index(lines[3], "#"))
	assert.Equal(t, "dark    #121212", lines[2])
	assert.Empty(t, RenderTable(nil, nil))
}
