package cli

import (
	"context"
	stderrors "errors"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/gsconsole/internal/errors"
	"github.com/rileyhilliard/gsconsole/internal/monitor"
	"github.com/rileyhilliard/gsconsole/internal/session"
)

var consoleCmd = &cobra.Command{
	Use:     "console [server]",
	Aliases: []string{"attach"},
	Short:   "Open the live console dashboard",
	Long: `Open a full-screen dashboard for one server: the live console with an
input line, CPU and memory graphs over the last minute, and power controls.

Keys:
  F1 start  F2 stop  F3 restart  F4 kill (asks first)
  PgUp/PgDn or the mouse wheel scroll the console; End follows new output
  Enter sends the typed command; Ctrl+C quits

Examples:
  gsconsole console
  gsconsole console survival --log-file /tmp/gsconsole.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTarget(firstArg(args))
		if err != nil {
			return err
		}
		s, err := newSession(t)
		if err != nil {
			return err
		}

		restore, err := redirectLog(logFile)
		if err != nil {
			return err
		}
		defer restore()

		return runConsole(cmd.Context(), s, t.name, t.cfg.Console.Capacity)
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

// runConsole runs the session and the dashboard together. Quitting the
// dashboard stops the session.
func runConsole(ctx context.Context, s *session.Session, name string, capacity int) error {
	model := monitor.NewModel(s, name, capacity)
	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		err := s.Run(gctx)
		if err != nil && !stderrors.Is(err, context.Canceled) {
			prog.Quit()
		}
		return err
	})
	g.Go(func() error {
		defer cancel()
		_, err := prog.Run()
		return err
	})

	if err := g.Wait(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) && !stderrors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// redirectLog points the std logger away from the screen while the
// dashboard owns it. An empty path discards log output.
func redirectLog(path string) (func(), error) {
	prev, prefix := log.Writer(), log.Prefix()
	if path == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(prev) }, nil
	}

	f, err := tea.LogToFile(path, "gsconsole")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't open log file "+path,
			"Check the --log-file path is writable.")
	}
	return func() {
		log.SetOutput(prev)
		log.SetPrefix(prefix)
		f.Close()
	}, nil
}
