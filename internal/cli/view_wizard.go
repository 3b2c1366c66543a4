package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	dialogSelectKey = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose"))
	dialogToggleKey = key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "yes/no"))
	dialogCancelKey = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
)

// dialogView shows a huh form in a bordered box above the chat. Finishing
// the form pops the dialog and runs whatever done returns; esc or an
// aborted form pops it without calling done.
type dialogView struct {
	state   *SharedState
	form    *huh.Form
	title   string
	confirm bool
	done    func() tea.Cmd
	closed  bool
}

func newWizardView(state *SharedState, title string, form *huh.Form, done func() tea.Cmd) *dialogView {
	return &dialogView{state: state, form: form, title: title, done: done}
}

func (v *dialogView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *dialogView) close(next tea.Cmd) tea.Cmd {
	v.closed = true
	return func() tea.Msg { return wizardCompleteMsg{nextCmd: next} }
}

func (v *dialogView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if v.closed {
		return v, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, dialogCancelKey) {
		return v, v.close(nil)
	}

	model, cmd := v.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		v.form = f
	}

	switch v.form.State {
	case huh.StateAborted:
		return v, v.close(nil)
	case huh.StateCompleted:
		var next tea.Cmd
		if v.done != nil {
			next = v.done()
		}
		return v, v.close(next)
	}
	return v, cmd
}

func (v *dialogView) View() string {
	p := v.state.Palette
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.UserBackground)).
		Padding(0, 2)
	return box.Render(v.form.View())
}

func (v *dialogView) ID() ViewID    { return ViewForm }
func (v *dialogView) Title() string { return v.title }

func (v *dialogView) ShortHelp() []key.Binding {
	if v.confirm {
		return []key.Binding{dialogToggleKey, dialogSelectKey, dialogCancelKey}
	}
	return []key.Binding{dialogSelectKey, dialogCancelKey}
}
