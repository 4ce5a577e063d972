package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/gsconsole/internal/session"
)

// defaultConnectTimeout bounds how long one-shot commands wait for the socket.
const defaultConnectTimeout = 15 * time.Second

var sendTimeout time.Duration

var sendCmd = &cobra.Command{
	Use:   "send <server> <command...>",
	Short: "Send one console command",
	Long: `Connect to a server, send a single console command, and disconnect.

Delivery is best-effort: the command is written once the socket is open and
no acknowledgement is awaited. Output shows up in 'gsconsole tail'.

Examples:
  gsconsole send survival say hello
  gsconsole send survival "whitelist add steve"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTarget(args[0])
		if err != nil {
			return err
		}
		s, err := newSession(t)
		if err != nil {
			return err
		}

		command := strings.Join(args[1:], " ")
		if err := runOnce(cmd.Context(), s, sendTimeout, func() { s.SendCommand(command) }); err != nil {
			return err
		}
		cmd.Printf("sent to %s: %s\n", t.name, command)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", defaultConnectTimeout, "how long to wait for the connection")
}

// runOnce starts s, waits for it to connect, calls send and closes s.
// Close writes any queued sends before the socket goes down.
func runOnce(ctx context.Context, s *session.Session, timeout time.Duration, send func()) error {
	var g errgroup.Group
	g.Go(func() error {
		return s.Run(ctx)
	})

	err := waitConnected(ctx, s, timeout)
	if err == nil {
		send()
	}
	s.Close()

	if runErr := g.Wait(); err == nil {
		err = runErr
	}
	return err
}
