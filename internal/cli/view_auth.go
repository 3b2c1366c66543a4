package cli

import (
	"context"

	"github.com/alexanderramin/agrobot/internal/cli/formatter"
	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

type authMode int

const (
	authLogin authMode = iota
	authSignup
)

// authFailedMsg carries a rejected login or signup back to the auth view.
type authFailedMsg struct {
	err error
}

// signupDoneMsg switches the auth view to login after a registration.
type signupDoneMsg struct {
	username string
}

// authLook is the fixed color set of the auth screen.
type authLook struct {
	page, card, fg, button, buttonFg string
}

func authColors(dark bool) authLook {
	if dark {
		return authLook{page: "#121212", card: "#263238", fg: "#ffffff", button: "#4caf50", buttonFg: "#ffffff"}
	}
	return authLook{page: "#e0f7fa", card: "#ffffff", fg: "#004d40", button: "#66bb6a", buttonFg: "#ffffff"}
}

// authPalette maps the auth look onto a palette for huh styling.
func authPalette(dark bool) domain.Palette {
	l := authColors(dark)
	return domain.Theme{
		Background:     l.card,
		Foreground:     l.fg,
		UserBackground: l.button,
		UserForeground: l.buttonFg,
	}.Resolve()
}

var (
	keyToggleMode  = key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "login/sign up"))
	keyToggleLight = key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "light/dark"))
	keyAuthExit    = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "exit"))
)

// authView is the login and signup screen.
type authView struct {
	state *SharedState
	mode  authMode
	form  *huh.Form

	username string
	password string
	confirm  string

	notice    string // success line, e.g. after signup
	errMsg    string
	submitted bool
}

func newAuthView(state *SharedState, mode authMode, notice string) *authView {
	v := &authView{state: state, mode: mode, notice: notice}
	v.buildForm()
	return v
}

func (v *authView) buildForm() {
	fields := []huh.Field{
		huh.NewInput().Title("Username").Value(&v.username),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&v.password),
	}
	if v.mode == authSignup {
		fields = append(fields,
			huh.NewInput().Title("Confirm Password").EchoMode(huh.EchoModePassword).Value(&v.confirm))
	}
	v.form = huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(agrobotHuhTheme(authPalette(v.state.AuthDark))).
		WithShowHelp(false)
}

// reset rebuilds the form, keeping the username and dropping passwords.
func (v *authView) reset() tea.Cmd {
	v.password = ""
	v.confirm = ""
	v.submitted = false
	v.buildForm()
	return v.form.Init()
}

func (v *authView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *authView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authFailedMsg:
		v.errMsg = msg.err.Error()
		v.notice = ""
		return v, v.reset()

	case signupDoneMsg:
		v.mode = authLogin
		v.username = msg.username
		v.errMsg = ""
		v.notice = signupSuccess
		return v, v.reset()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyToggleMode):
			if v.mode == authLogin {
				v.mode = authSignup
			} else {
				v.mode = authLogin
			}
			v.errMsg, v.notice = "", ""
			return v, v.reset()
		case key.Matches(msg, keyToggleLight):
			v.state.AuthDark = !v.state.AuthDark
			v.buildForm()
			return v, v.form.Init()
		case key.Matches(msg, keyAuthExit):
			return v, pushView(newConfirmView(v.state, "Exit", confirmExit, func() tea.Cmd {
				return func() tea.Msg { return quitMsg{} }
			}))
		}
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State == huh.StateCompleted && !v.submitted {
		v.submitted = true
		return v, v.submit()
	}
	return v, cmd
}

func (v *authView) submit() tea.Cmd {
	app := v.state.App
	username, password, confirm := v.username, v.password, v.confirm
	if v.mode == authSignup {
		return func() tea.Msg { return applySignup(context.Background(), app, username, password, confirm) }
	}
	return func() tea.Msg { return applyLogin(context.Background(), app, username, password) }
}

func applyLogin(ctx context.Context, app *App, username, password string) tea.Msg {
	sess, err := app.Credentials.Authenticate(ctx, username, password)
	if err != nil {
		return authFailedMsg{err: err}
	}
	return signedInMsg{session: sess}
}

func applySignup(ctx context.Context, app *App, username, password, confirm string) tea.Msg {
	if err := app.Credentials.Register(ctx, username, password, confirm); err != nil {
		return authFailedMsg{err: err}
	}
	return signupDoneMsg{username: username}
}

func (v *authView) View() string {
	look := authColors(v.state.AuthDark)

	heading := "Login"
	if v.mode == authSignup {
		heading = "Sign Up"
	}
	title := lipgloss.NewStyle().Foreground(lipgloss.Color(look.button)).Bold(true).Render("AgroBot " + heading)

	body := title + "\n\n" + v.form.View()
	if v.errMsg != "" {
		body += "\n" + formatter.StyleRed.Render(v.errMsg)
	}
	if v.notice != "" {
		body += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color(look.button)).Render(v.notice)
	}

	card := lipgloss.NewStyle().
		Background(lipgloss.Color(look.card)).
		Foreground(lipgloss.Color(look.fg)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(look.button)).
		Padding(1, 3).
		Render(body)

	if v.state.Width <= 0 {
		return card
	}
	return lipgloss.Place(v.state.Width, v.state.ContentHeight(), lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(look.page)))
}

func (v *authView) ID() ViewID { return ViewAuth }
func (v *authView) Title() string {
	if v.mode == authSignup {
		return "Sign Up"
	}
	return "Login"
}
func (v *authView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next/submit")),
		keyToggleMode,
		keyToggleLight,
		keyAuthExit,
	}
}
