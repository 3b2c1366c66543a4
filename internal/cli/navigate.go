package cli

import (
	"github.com/alexanderramin/agrobot/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

// Navigation and session messages handled by appModel.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// statusMsg sets the status line. An empty text clears it.
type statusMsg struct {
	text  string
	isErr bool
}

// wizardCompleteMsg is sent when a form completes or is cancelled.
// The appModel pops the form view, then runs nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// signedInMsg opens the chat for a freshly authenticated session.
type signedInMsg struct {
	session *domain.Session
}

// signedOutMsg ends the session and returns to the login form.
type signedOutMsg struct{}

// themeChangedMsg applies a newly saved user theme.
type themeChangedMsg struct {
	name  string
	theme domain.Theme
}

// historyClearedMsg tells the chat view its transcript is now empty.
type historyClearedMsg struct{}

type quitMsg struct{}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func setStatus(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func setError(err error) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: err.Error(), isErr: true} }
}
