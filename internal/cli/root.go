package cli

import (
	"time"

	"github.com/alexanderramin/agrobot/internal/chat"
	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/alexanderramin/agrobot/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// PasswordEnv names the environment variable non-TUI commands read the
// password from before prompting.
const PasswordEnv = "AGROBOT_PASSWORD"

// App holds the services shared by the TUI and the subcommands.
type App struct {
	Credentials service.CredentialService
	History     service.HistoryService
	Themes      service.ThemeService
	Responder   chat.Responder

	// Warnings collects recoverable storage problems for the status line.
	// May be nil.
	Warnings *service.WarningLog

	ThinkingDelay time.Duration
	Logger        *zap.Logger

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool

	// PromptPassword overrides the interactive password prompt in tests.
	PromptPassword func(title string) (string, error)
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// newConversation binds a signed-in session to the history and responder.
func (a *App) newConversation(sess *domain.Session) *chat.Conversation {
	return chat.New(sess, a.History, a.Responder,
		chat.WithThinkingDelay(a.ThinkingDelay),
		chat.WithLogger(a.logger()),
	)
}

// drainWarnings returns and clears pending storage warnings.
func (a *App) drainWarnings() []string {
	if a.Warnings == nil {
		return nil
	}
	return a.Warnings.Drain()
}

// NewRootCmd creates the top-level "agrobot" command. Without a
// subcommand it starts the TUI when stdin is a terminal and prints help
// otherwise.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "agrobot",
		Short:         "Farming assistant chat for the terminal",
		Long:          "AgroBot answers questions about weather, forecasts, pests and crops.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return cmd.Help()
			}
			return runTUI(app)
		},
	}

	root.AddCommand(
		newSignupCmd(app),
		newAskCmd(app),
		newHistoryCmd(app),
		newThemesCmd(app),
	)

	return root
}
