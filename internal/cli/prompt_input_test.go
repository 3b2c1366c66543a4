package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptYesNoIO(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes lowercase lf", input: "y\n", want: true},
		{name: "yes word lf", input: "yes\n", want: true},
		{name: "yes mixed case lf", input: "YeS\n", want: true},
		{name: "yes lowercase cr", input: "y\r", want: true},
		{name: "empty means no", input: "\n", want: false},
		{name: "no explicit cr", input: "n\r", want: false},
		{name: "eof", input: "", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			got := promptYesNoIO(strings.NewReader(tc.input), &out, clearPrompt+" [y/N] ")
			assert.Equal(t, tc.want, got)
			assert.Equal(t, clearPrompt+" [y/N] ", out.String())
		})
	}
}

func TestReadPromptLine_StopsAtEitherLineEnding(t *testing.T) {
	in := strings.NewReader("first\rsecond\nthird")

	for _, want := range []string{"first", "second", "third"} {
		got, err := readPromptLine(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestReadPassword_EnvironmentWins(t *testing.T) {
	t.Setenv(PasswordEnv, "from_env1")
	app := &App{PromptPassword: func(string) (string, error) { return "prompted1", nil }}

	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("stdin1\n"))
	pw, err := readPassword(cmd, app, "Password")
	require.NoError(t, err)
	assert.Equal(t, "from_env1", pw)
}

func TestReadPassword_FallsBackToStdin(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("stdin1\r\n"))
	pw, err := readPassword(cmd, &App{}, "Password")
	require.NoError(t, err)
	assert.Equal(t, "stdin1", pw)
}
