package cli

import (
	"fmt"

	"github.com/alexanderramin/agrobot/internal/cli/formatter"
	"github.com/spf13/cobra"
)

const clearPrompt = "Clear all chat history?"

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear a user's chat history",
	}
	cmd.AddCommand(
		newHistoryShowCmd(app),
		newHistoryClearCmd(app),
	)
	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the chat history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := authenticate(cmd, app, username)
			if err != nil {
				return err
			}
			turns := app.newConversation(sess).Open(cmd.Context())
			for _, w := range app.drainWarnings() {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Warning(w))
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(turns))
			return nil
		},
	}

	addUserFlag(cmd, &username, "account whose history to show")
	return cmd
}

func newHistoryClearCmd(app *App) *cobra.Command {
	var username string
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every turn of the chat history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := authenticate(cmd, app, username)
			if err != nil {
				return err
			}
			if !yes && !promptYesNoIO(cmd.InOrStdin(), cmd.OutOrStdout(), clearPrompt+" [y/N] ") {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
				return nil
			}
			if err := app.newConversation(sess).Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clearing history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Chat history cleared.")
			return nil
		},
	}

	addUserFlag(cmd, &username, "account whose history to clear")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
