package cli

import (
	"bytes"
	stderrors "errors"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/gsconsole/internal/errors"
)

func TestIsUnknownCommandError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unknown command", stderrors.New(`unknown command "foo" for "gsconsole"`), true},
		{"unknown flag", stderrors.New(`unknown flag: --foo`), true},
		{"unknown shorthand", stderrors.New(`unknown shorthand flag: 'z' in -z`), true},
		{"other error", stderrors.New("connection failed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUnknownCommandError(tt.err))
		})
	}
}

func TestExtractUnknownCommand(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"standard cobra format", stderrors.New(`unknown command "foo" for "gsconsole"`), "foo"},
		{"command with hyphen", stderrors.New(`unknown command "my-server" for "gsconsole"`), "my-server"},
		{"no quotes returns empty", stderrors.New("unknown command foo"), ""},
		{"single quote returns empty", stderrors.New(`unknown command "foo`), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractUnknownCommand(tt.err))
		})
	}
}

func TestFormatError(t *testing.T) {
	structured := errors.New(errors.ErrConfig, "No panel URL configured", "Set panel.url")
	assert.Equal(t, structured.Error(), formatError(structured))

	assert.Equal(t, "✗ boom\n", formatError(stderrors.New("boom")))

	got := formatError(stderrors.New(`unknown command "foo" for "gsconsole"`))
	assert.Contains(t, got, "Unknown command 'foo'")
	assert.Contains(t, got, "gsconsole --help")
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand_Version(t *testing.T) {
	out, err := executeRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gsconsole "+formatVersion(version))
	assert.Contains(t, out, "go: "+runtime.Version())
}

func TestRootCommand_Subcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"console", "tail", "send", "power", "init", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCommand_PowerRejectsUnknownAction(t *testing.T) {
	_, err := executeRoot(t, "power", "survival", "explode")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrExec))
	assert.Contains(t, err.Error(), "'explode' isn't a power action")
}

func TestRootCommand_SendNeedsCommand(t *testing.T) {
	_, err := executeRoot(t, "send", "survival")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "requires at least 2 arg"))
}
