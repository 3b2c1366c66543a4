package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexanderramin/agrobot/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func promptYesNoIO(in io.Reader, out io.Writer, message string) bool {
	if out != nil {
		fmt.Fprint(out, message)
	}

	text, err := readPromptLine(in)
	if err != nil {
		return false
	}

	text = strings.TrimSpace(strings.ToLower(text))
	return text == "y" || text == "yes"
}

// readPromptLine reads until either LF or CR so Enter works in normal and raw terminal modes.
func readPromptLine(in io.Reader) (string, error) {
	if in == nil {
		return "", io.EOF
	}

	var buf []byte
	var one [1]byte

	for {
		n, err := in.Read(one[:])
		if n > 0 {
			switch one[0] {
			case '\n', '\r':
				return string(buf), nil
			default:
				buf = append(buf, one[0])
			}
		}

		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				return string(buf), nil
			}
			return string(buf), err
		}
	}
}

// readPassword returns the password for a non-TUI command. The environment
// wins; a terminal gets a masked huh prompt; anything else is read as one
// line from the command's stdin.
func readPassword(cmd *cobra.Command, app *App, title string) (string, error) {
	if pw, ok := lookupPasswordEnv(); ok {
		return pw, nil
	}
	if app.PromptPassword != nil {
		return app.PromptPassword(title)
	}
	if app.interactive() {
		var pw string
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title(title).
					EchoMode(huh.EchoModePassword).
					Value(&pw),
			),
		).WithTheme(agrobotHuhTheme(domain.DefaultTheme().Resolve())).WithShowHelp(false).Run()
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return pw, nil
	}
	line, err := readPromptLine(cmd.InOrStdin())
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func lookupPasswordEnv() (string, bool) {
	return os.LookupEnv(PasswordEnv)
}
