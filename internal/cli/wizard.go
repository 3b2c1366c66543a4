package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/agrobot/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var errUnknownTheme = errors.New("unknown theme")

// Confirmation questions shown before destructive or final actions.
const (
	confirmClear  = clearPrompt
	confirmLogout = "Are you sure you want to logout?"
	confirmExit   = "Are you sure you want to exit?"
)

// agrobotHuhTheme styles huh forms from a resolved palette: the accent is
// the user bubble color, text uses the general foreground.
func agrobotHuhTheme(p domain.Palette) *huh.Theme {
	t := huh.ThemeBase()

	accent := lipgloss.Color(p.UserBackground)
	onAccent := lipgloss.Color(p.UserForeground)
	fg := lipgloss.Color(p.Foreground)
	dim := lipgloss.Color("#90a4ae")

	t.Focused.Title = lipgloss.NewStyle().Foreground(accent).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(accent)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(accent)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(fg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(onAccent).Background(accent).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(dim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(accent)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(accent)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(fg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(dim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(dim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))

	t.Blurred.Title = lipgloss.NewStyle().Foreground(dim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(dim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(dim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(dim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(dim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(dim)

	return t
}

// newConfirmView asks question and runs onYes only if the user accepts.
func newConfirmView(state *SharedState, title, question string, onYes func() tea.Cmd) View {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(agrobotHuhTheme(state.Palette)).WithShowHelp(false)

	v := newWizardView(state, title, form, func() tea.Cmd {
		if !ok {
			return nil
		}
		return onYes()
	})
	v.confirm = true
	return v
}

// newThemePickerView lists the catalog and saves the chosen theme. With an
// empty catalog it reports that and shows nothing.
func newThemePickerView(state *SharedState) (View, tea.Cmd) {
	ctx := context.Background()
	catalog := state.App.Themes.Catalog(ctx)
	if len(catalog) == 0 {
		return nil, setStatus("No themes available.")
	}

	options := make([]huh.Option[string], 0, len(catalog))
	for _, nt := range catalog {
		options = append(options, huh.NewOption(nt.Name, nt.Name))
	}
	choice := catalog[0].Name
	username := state.Username()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose a theme").
				Options(options...).
				Value(&choice),
		),
	).WithTheme(agrobotHuhTheme(state.Palette)).WithShowHelp(false)

	v := newWizardView(state, "Theme", form, func() tea.Cmd {
		return func() tea.Msg { return applyThemeMsg(ctx, state.App, username, choice) }
	})
	return v, nil
}

// saveThemeChoice looks name up in the catalog and stores it for username.
func saveThemeChoice(ctx context.Context, app *App, username, name string) (domain.Theme, error) {
	theme, ok := app.Themes.Lookup(ctx, name)
	if !ok {
		return domain.Theme{}, fmt.Errorf("%w: %q", errUnknownTheme, name)
	}
	if err := app.Themes.SaveUserTheme(ctx, username, theme); err != nil {
		return domain.Theme{}, fmt.Errorf("saving theme: %w", err)
	}
	return theme, nil
}

// applyTheme is the command-line form of a theme change.
func applyTheme(ctx context.Context, app *App, username, name string) (string, error) {
	if _, err := saveThemeChoice(ctx, app, username, name); err != nil {
		return "", err
	}
	return "Theme changed to " + name + ".", nil
}

func applyThemeMsg(ctx context.Context, app *App, username, name string) tea.Msg {
	theme, err := saveThemeChoice(ctx, app, username, name)
	if err != nil {
		return statusMsg{text: err.Error(), isErr: true}
	}
	return themeChangedMsg{name: name, theme: theme}
}

// applyClear empties the signed-in user's history.
func applyClear(ctx context.Context, state *SharedState) tea.Msg {
	if state.Conv == nil {
		return nil
	}
	if err := state.Conv.Clear(ctx); err != nil {
		return statusMsg{text: "clearing history: " + err.Error(), isErr: true}
	}
	return historyClearedMsg{}
}
