package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/gsconsole/internal/session"
	"github.com/rileyhilliard/gsconsole/internal/stats"
	"github.com/rileyhilliard/gsconsole/internal/terminal"
	"github.com/rileyhilliard/gsconsole/internal/ui"
)

var tailStats bool

var tailCmd = &cobra.Command{
	Use:   "tail [server]",
	Short: "Stream a server's console to stdout",
	Long: `Stream a server's console output to stdout without the dashboard.

The console history is printed once on connect, then new lines as they
arrive. The connection is re-established after drops until interrupted.
Connection changes are reported on stderr.

Examples:
  gsconsole tail
  gsconsole tail survival --stats
  gsconsole tail survival | grep -i error`,
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

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runTail(ctx, s, tailOptions{
			Out:   cmd.OutOrStdout(),
			Err:   cmd.ErrOrStderr(),
			Stats: tailStats,
		})
	},
}

func init() {
	rootCmd.AddCommand(tailCmd)
	tailCmd.Flags().BoolVar(&tailStats, "stats", false, "print a resource summary line for every stats sample")
}

type tailOptions struct {
	Out io.Writer
	// Err receives connection status changes. Nil discards them.
	Err   io.Writer
	Stats bool
}

// runTail runs s and copies its console to opts.Out until ctx is cancelled
// or writing fails.
func runTail(ctx context.Context, s *session.Session, opts tailOptions) error {
	if opts.Err == nil {
		opts.Err = io.Discard
	}
	writer := terminal.NewLineWriter(opts.Out, "")
	bridge := terminal.NewBridge(writer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Run(gctx)
	})
	g.Go(func() error {
		status := session.StatusDisconnected
		var lastSample time.Time

		for range s.Updates() {
			snap := s.Snapshot()
			if snap.Status != status {
				status = snap.Status
				fmt.Fprintf(opts.Err, "%s %s\n", ui.ConnectionBadge(status), snap.ServerID)
			}

			bridge.Sync(s)

			if opts.Stats && snap.HasStats && len(snap.Window) > 0 {
				if ts := snap.Window[len(snap.Window)-1].Timestamp; ts.After(lastSample) {
					lastSample = ts
					writer.WriteLine(formatStatsLine(snap.Stats, stats.CPUSeries(snap.Window)))
				}
			}

			if err := writer.Err(); err != nil {
				s.Close()
				return err
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil && !stderrors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// trendWidth is how many recent CPU samples the stats line draws.
const trendWidth = 20

// formatStatsLine renders one sample as a single line, followed by a CPU
// sparkline when there is more than one point of history.
func formatStatsLine(s stats.Sample, cpuTrend []float64) string {
	line := fmt.Sprintf("[stats] cpu %.1f%%  mem %s (%.1f%%)  disk %s  net ↓%s ↑%s  up %s",
		s.CPUPercent,
		ui.FormatUsage(s.MemoryBytes, s.MemoryLimitBytes),
		s.MemoryPercent(),
		ui.FormatUsage(s.DiskBytes, s.DiskLimitBytes),
		ui.FormatBytes(s.NetworkRxBytes),
		ui.FormatBytes(s.NetworkTxBytes),
		ui.FormatUptime(s.Uptime))
	if len(cpuTrend) > 1 {
		line += "  " + ui.RenderSparkline(cpuTrend, trendWidth)
	}
	return line
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
