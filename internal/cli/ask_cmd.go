package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/agrobot/internal/cli/formatter"
	"github.com/spf13/cobra"
)

const typingMessage = "Bot is typing..."

func newAskCmd(app *App) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   `ask "<question>"`,
		Short: "Ask AgroBot a single question",
		Long: `Ask a single question as the given user. The question and the reply
are added to the user's chat history, exactly as in the chat window.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := authenticate(cmd, app, username)
			if err != nil {
				return err
			}
			conv := app.newConversation(sess)

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), typingMessage)
			}
			result, err := conv.Send(cmd.Context(), strings.Join(args, " "))
			stop()

			if result.Reply != "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.Reply)
			}
			for _, w := range app.drainWarnings() {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Warning(w))
			}
			return err
		},
	}

	addUserFlag(cmd, &username, "account to ask as")
	return cmd
}
