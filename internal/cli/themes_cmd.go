package cli

import (
	"fmt"

	"github.com/alexanderramin/agrobot/internal/cli/formatter"
	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/spf13/cobra"
)

func newThemesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List, initialize or pick color themes",
	}
	cmd.AddCommand(
		newThemesListCmd(app),
		newThemesInitCmd(app),
		newThemesSetCmd(app),
	)
	return cmd
}

func newThemesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the themes in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := app.Themes.Catalog(cmd.Context())
			for _, w := range app.drainWarnings() {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Warning(w))
			}
			fmt.Fprint(cmd.OutOrStdout(), formatThemeTable(catalog))
			return nil
		},
	}
}

func formatThemeTable(catalog []domain.NamedTheme) string {
	if len(catalog) == 0 {
		return formatter.Dim("No themes available.") + "\n"
	}
	rows := make([][]string, 0, len(catalog))
	for _, nt := range catalog {
		p := nt.Theme.Resolve()
		rows = append(rows, []string{
			nt.Name,
			formatter.Swatch(p.Background),
			formatter.Swatch(p.Foreground),
			formatter.Swatch(p.UserBackground),
			formatter.Swatch(p.BotBackground),
		})
	}
	return formatter.RenderTable([]string{"NAME", "BG", "FG", "USER", "BOT"}, rows)
}

func newThemesInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the built-in catalog if no catalog file exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := app.Themes.InitCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintln(cmd.OutOrStdout(), "Theme catalog created.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Theme catalog already exists; left unchanged."))
			}
			return nil
		},
	}
}

func newThemesSetCmd(app *App) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Save a catalog theme as the user's theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := authenticate(cmd, app, username)
			if err != nil {
				return err
			}
			msg, err := applyTheme(cmd.Context(), app, sess.Username, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	addUserFlag(cmd, &username, "account to change")
	return cmd
}
