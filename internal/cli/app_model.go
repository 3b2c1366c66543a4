package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/agrobot/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// appModel is the root bubbletea Model for the TUI. It manages the view
// stack, the header and the status line.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool

	status      string
	statusIsErr bool
}

func newAppModel(app *App) appModel {
	state := newSharedState(app)
	return appModel{
		state:     state,
		viewStack: []View{newAuthView(state, authLogin, "")},
	}
}

func runTUI(app *App) error {
	p := tea.NewProgram(newAppModel(app), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// forward sends msg to the active view.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

// broadcast sends msg to every view in the stack, bottom first.
func (m appModel) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i, v := range m.viewStack {
		updated, cmd := v.Update(msg)
		m.viewStack[i] = updated.(View)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// absorbWarnings moves pending storage warnings onto the status line.
// Errors already on the line stay.
func (m *appModel) absorbWarnings() {
	warnings := m.state.App.drainWarnings()
	if len(warnings) == 0 || (m.statusIsErr && m.status != "") {
		return
	}
	m.status = formatter.Warning(strings.Join(warnings, "; "))
	m.statusIsErr = false
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.update(msg)
	am := model.(appModel)
	am.absorbWarnings()
	return am, cmd
}

func (m appModel) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m.broadcast(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		return m.forward(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case statusMsg:
		m.status = msg.text
		m.statusIsErr = msg.isErr
		return m, nil

	case wizardCompleteMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, msg.nextCmd

	case signedInMsg:
		m.state.SignIn(context.Background(), msg.session)
		m.status, m.statusIsErr = "", false
		v := newChatView(m.state)
		m.viewStack = []View{v}
		return m, v.Init()

	case signedOutMsg:
		m.state.SignOut()
		m.status, m.statusIsErr = "", false
		v := newAuthView(m.state, authLogin, "")
		m.viewStack = []View{v}
		return m, v.Init()

	case themeChangedMsg:
		m.state.ApplyTheme(msg.theme)
		m.status, m.statusIsErr = "Theme changed to "+msg.name+".", false
		return m.broadcast(msg)

	case historyClearedMsg:
		return m.broadcast(msg)

	case quitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m.forward(msg)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StyleHeader.Render("AgroBot")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	header := title
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}
	if user := m.state.Username(); user != "" {
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(user) + formatter.Dim("]")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	status := ""
	switch {
	case m.status == "":
	case m.statusIsErr:
		status = formatter.Error(m.status)
	default:
		status = m.status
	}

	var hints []string
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}

	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + status + "\n" + strings.Join(hints, "  ")
}
