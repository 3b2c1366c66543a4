package cli

import (
	"context"
	"errors"

	"github.com/alexanderramin/agrobot/internal/chat"
	"github.com/alexanderramin/agrobot/internal/cli/formatter"
	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/alexanderramin/agrobot/internal/resolver"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// replyMsg delivers the bot's answer computed off the update loop.
type replyMsg struct {
	result resolver.Result
	err    error
}

const inputHeight = 3

var (
	keySend    = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send"))
	keyNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"), key.WithHelp("alt+enter", "newline"))
	keyClear   = key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear history"))
	keyTheme   = key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme"))
	keyLogout  = key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "logout"))
	keyExit    = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "exit"))
	keyScroll  = key.NewBinding(key.WithKeys("pgup", "pgdown"))
)

// chatView shows the transcript above a multi-line input.
type chatView struct {
	state *SharedState
	vp    viewport.Model
	input textarea.Model
	spin  spinner.Model

	turns   []domain.Turn
	waiting bool
}

func newChatView(state *SharedState) *chatView {
	ta := textarea.New()
	ta.Placeholder = "Type your question..."
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.CharLimit = 2000
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline = keyNewline
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{Frames: formatter.SpinnerFrames(), FPS: spinner.Dot.FPS}
	sp.Style = formatter.StyleGreen

	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}

	v := &chatView{state: state, vp: vp, input: ta, spin: sp}
	if state.Conv != nil {
		v.turns = state.Conv.Open(context.Background())
	}
	v.layout()
	return v
}

// layout sizes the transcript to whatever the input and button rows leave.
func (v *chatView) layout() {
	w := max(v.state.Width, 20)
	v.vp.Width = w
	v.vp.Height = max(v.state.ContentHeight()-inputHeight-1, 1)
	v.input.SetWidth(w)
	v.refresh()
}

func (v *chatView) refresh() {
	v.vp.SetContent(formatter.RenderTranscript(v.turns, v.state.Palette, v.vp.Width, chat.Welcome))
	v.vp.GotoBottom()
}

func (v *chatView) reload() {
	if v.state.Conv != nil {
		v.turns = v.state.Conv.Turns(context.Background())
	}
	v.refresh()
}

// ── tea.Model interface ──────────────────────────────────────────────────────

func (v *chatView) Init() tea.Cmd {
	return textarea.Blink
}

func (v *chatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.layout()
		return v, nil

	case historyClearedMsg:
		v.turns = nil
		v.refresh()
		return v, nil

	case themeChangedMsg:
		v.refresh()
		return v, nil

	case replyMsg:
		v.waiting = false
		v.reload()
		v.input.Focus()
		if msg.err != nil {
			return v, tea.Batch(textarea.Blink, setError(msg.err))
		}
		return v, textarea.Blink

	case spinner.TickMsg:
		if !v.waiting {
			return v, nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *chatView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keySend):
		return v, v.send()

	case key.Matches(msg, keyClear):
		state := v.state
		return v, pushView(newConfirmView(state, "Clear", confirmClear, func() tea.Cmd {
			return func() tea.Msg { return applyClear(context.Background(), state) }
		}))

	case key.Matches(msg, keyTheme):
		picker, cmd := newThemePickerView(v.state)
		if picker == nil {
			return v, cmd
		}
		return v, pushView(picker)

	case key.Matches(msg, keyLogout):
		return v, pushView(newConfirmView(v.state, "Logout", confirmLogout, func() tea.Cmd {
			return func() tea.Msg { return signedOutMsg{} }
		}))

	case key.Matches(msg, keyExit):
		return v, pushView(newConfirmView(v.state, "Exit", confirmExit, func() tea.Cmd {
			return func() tea.Msg { return quitMsg{} }
		}))

	case key.Matches(msg, keyScroll):
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return v, cmd
	}

	if v.waiting {
		return v, nil
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// send records the typed message and starts the reply in the background.
// Input stays disabled until the reply arrives.
func (v *chatView) send() tea.Cmd {
	if v.waiting || v.state.Conv == nil {
		return nil
	}
	conv := v.state.Conv
	ctx := context.Background()

	text, err := conv.Record(ctx, v.input.Value())
	if errors.Is(err, chat.ErrEmptyMessage) {
		v.input.Reset()
		return nil
	}
	if err != nil {
		return setError(err)
	}

	v.input.Reset()
	v.input.Blur()
	v.waiting = true
	v.reload()

	return tea.Batch(
		setStatus(""),
		v.spin.Tick,
		func() tea.Msg {
			result, err := conv.Respond(ctx, text)
			return replyMsg{result: result, err: err}
		},
	)
}

func (v *chatView) View() string {
	p := v.state.Palette
	pane := lipgloss.NewStyle().
		Width(v.vp.Width).
		Background(lipgloss.Color(p.Background)).
		Foreground(lipgloss.Color(p.Foreground)).
		Render(v.vp.View())

	clearBtn := lipgloss.NewStyle().
		Background(lipgloss.Color(p.ClearBackground)).
		Foreground(lipgloss.Color(p.ClearForeground)).
		Padding(0, 1).
		Render("Clear History")
	themeBtn := lipgloss.NewStyle().
		Background(lipgloss.Color(p.ThemeBackground)).
		Foreground(lipgloss.Color(p.ThemeForeground)).
		Padding(0, 1).
		Render("Change Theme")

	row := clearBtn + " " + themeBtn
	if v.waiting {
		row = v.spin.View() + " " + formatter.Dim(typingMessage) + "  " + row
	}

	return pane + "\n" + row + "\n" + v.input.View()
}

// ── View interface ───────────────────────────────────────────────────────────

func (v *chatView) ID() ViewID    { return ViewChat }
func (v *chatView) Title() string { return "Chat" }
func (v *chatView) ShortHelp() []key.Binding {
	return []key.Binding{keySend, keyNewline, keyClear, keyTheme, keyLogout, keyExit}
}

// Waiting reports whether a reply is pending.
func (v *chatView) Waiting() bool { return v.waiting }
