package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/agrobot/internal/cli/formatter"
	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const signupSuccess = "Signup successful! You can now login."

func newSignupCmd(app *App) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, app, "Password")
			if err != nil {
				return err
			}
			// The environment supplies one password for both fields.
			confirm := password
			if _, fromEnv := lookupPasswordEnv(); !fromEnv {
				if confirm, err = readPassword(cmd, app, "Confirm Password"); err != nil {
					return err
				}
			}
			if err := app.Credentials.Register(cmd.Context(), username, password, confirm); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render(signupSuccess))
			return nil
		},
	}

	addUserFlag(cmd, &username, "username (letters, digits, underscore)")
	return cmd
}

// addUserFlag registers the required --user/-u flag.
func addUserFlag(cmd *cobra.Command, target *string, usage string) {
	bindUserFlag(cmd.Flags(), target, usage)
	_ = cmd.MarkFlagRequired("user")
}

func bindUserFlag(fs *pflag.FlagSet, target *string, usage string) {
	fs.StringVarP(target, "user", "u", "", usage)
}

// authenticate signs a command in as username, reading the password the
// same way signup does.
func authenticate(cmd *cobra.Command, app *App, username string) (*domain.Session, error) {
	password, err := readPassword(cmd, app, "Password for "+username)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.Credentials.Authenticate(ctx, username, password)
}
