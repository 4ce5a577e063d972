package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/gsconsole/internal/errors"
	"github.com/rileyhilliard/gsconsole/internal/power"
)

var (
	powerYes     bool
	powerTimeout time.Duration
)

var powerCmd = &cobra.Command{
	Use:   "power <server> <start|stop|restart|kill>",
	Short: "Send a power action",
	Long: `Ask the panel to start, stop, restart or kill a server.

The panel decides the resulting state; watch it with 'gsconsole console'.
Kill terminates the process without a clean shutdown and asks for
confirmation unless --yes is given.

Examples:
  gsconsole power survival restart
  gsconsole power survival kill --yes`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 1 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names := make([]string, len(power.Actions))
		for i, a := range power.Actions {
			names[i] = string(a)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := power.ParseAction(args[1])
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrExec,
				fmt.Sprintf("'%s' isn't a power action", args[1]),
				"Use one of: start, stop, restart, kill")
		}

		t, err := resolveTarget(args[0])
		if err != nil {
			return err
		}

		if power.RequiresConfirmation(action) && !powerYes {
			if err := confirmKill(t.name); err != nil {
				return err
			}
		}

		s, err := newSession(t)
		if err != nil {
			return err
		}
		if err := runOnce(cmd.Context(), s, powerTimeout, func() { s.SendPowerAction(action) }); err != nil {
			return err
		}
		cmd.Printf("%s requested for %s\n", action, t.name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(powerCmd)
	powerCmd.Flags().BoolVarP(&powerYes, "yes", "y", false, "skip the kill confirmation")
	powerCmd.Flags().DurationVar(&powerTimeout, "timeout", defaultConnectTimeout, "how long to wait for the connection")
}

// Swapped in tests.
var (
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	askConfirm      = func(title string) (bool, error) {
		var ok bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(title).
					Description("The process is terminated without saving.").
					Affirmative("Kill").
					Negative("Cancel").
					Value(&ok),
			),
		)
		if err := form.Run(); err != nil {
			return false, err
		}
		return ok, nil
	}
)

// confirmKill returns nil only if the user agreed to kill the server.
func confirmKill(name string) error {
	if !stdinIsTerminal() {
		return errors.New(errors.ErrExec,
			"Kill needs confirmation",
			"stdin isn't a terminal, so pass --yes to confirm.")
	}
	ok, err := askConfirm(fmt.Sprintf("Kill %s?", name))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Failed to get user input",
			"Pass --yes to skip the prompt.")
	}
	if !ok {
		return errors.New(errors.ErrExec, "Kill cancelled", "")
	}
	return nil
}
