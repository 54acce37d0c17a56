package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dropbox-comments/feature/orchestrator"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncOnce bool

// syncCmd runs reconciliation cycles from the command line.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync Dropbox comments into the ledger",
	Long: `Runs reconciliation cycles against the configured mailbox and spreadsheet.

With --once a single cycle runs and the command exits. Otherwise a cycle runs
every poll.interval_seconds until interrupted. A failed cycle is logged and
retried on the next tick; it never changes the exit status.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncOnce, "once", false, "Run a single cycle and exit")
	RootCmd.AddCommand(syncCmd)
}

// cycleRunner is the part of the orchestrator the sync command drives.
type cycleRunner interface {
	RunOnce(ctx context.Context) (orchestrator.Outcome, error)
}

func runSync(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	states, err := a.stateStore(ctx)
	if err != nil {
		return err
	}
	repo, err := a.auditRepository(ctx)
	if err != nil {
		return err
	}
	orch, err := a.orchestrator(ctx, states, repo)
	if err != nil {
		return err
	}

	interval := time.Duration(a.cfg.Poll.IntervalSeconds) * time.Second
	return runCycles(ctx, orch, syncOnce, interval, a.logger)
}

// runCycles runs one cycle, or one per interval until ctx is cancelled.
// An in-flight cycle is never interrupted by cancellation.
func runCycles(ctx context.Context, r cycleRunner, once bool, interval time.Duration, logger *zap.Logger) error {
	if !once {
		logger.Info("Starting periodic sync", zap.Duration("interval", interval))
	}

	for {
		if _, err := r.RunOnce(context.WithoutCancel(ctx)); err != nil {
			logger.Error("Sync cycle failed", zap.Error(err))
		}
		if once {
			return nil
		}

		select {
		case <-ctx.Done():
			logger.Info("Sync stopped")
			return nil
		case <-time.After(interval):
		}
	}
}
