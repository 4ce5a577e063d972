package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/gsconsole/internal/logger"
	"github.com/rileyhilliard/gsconsole/internal/ui"
)

// Global flags
var (
	cfgFile string
	verbose bool
	noColor bool
	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "gsconsole",
	Short: "Live console and telemetry for game servers",
	Long: `gsconsole connects to a game panel's console socket and streams a
server's console output, resource usage and power state.

The connection is kept alive across network drops with exponential backoff.
Console commands and power actions are sent best-effort over the live
connection.

Examples:
  gsconsole console survival
  gsconsole tail survival --stats
  gsconsole send survival say hello
  gsconsole power survival restart`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			if err := os.Setenv(logger.DebugEnv, "1"); err != nil {
				return err
			}
		}
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .gsconsole.yaml, then ~/.config/gsconsole/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log connection details (sets GSCONSOLE_DEBUG)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs here while the dashboard owns the screen")
}

// Execute runs the root command. Errors are printed to stderr and the
// process exits non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

// formatError renders a command error. Structured errors format themselves;
// cobra usage errors get a pointer to --help.
func formatError(err error) string {
	msg := err.Error()
	if isUnknownCommandError(err) {
		if name := extractUnknownCommand(err); name != "" {
			return fmt.Sprintf("✗ Unknown command '%s'\n\n  Run 'gsconsole --help' to see available commands.\n", name)
		}
		return fmt.Sprintf("✗ %s\n\n  Run 'gsconsole --help' for usage.\n", msg)
	}
	if strings.HasPrefix(msg, "✗") {
		return msg
	}
	return "✗ " + msg + "\n"
}

// isUnknownCommandError reports whether err is cobra's unknown command or flag error.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the command name out of
// `unknown command "foo" for "gsconsole"`.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
