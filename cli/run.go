// ABOUTME: Cycle execution commands: one-shot and daemon mode
// ABOUTME: Daemon runs cycles on a ticker and stops between cycles on SIGINT/SIGTERM
package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/crmdigest/config"
	"github.com/harperreed/crmdigest/pipeline"
	"github.com/harperreed/crmdigest/state"
)

// cycleRunner lets tests drive the loop with a fake runner.
type cycleRunner interface {
	RunCycle(ctx context.Context) (pipeline.CycleStats, error)
}

// OnceCommand runs a single processing cycle and exits. Meant for
// cloud cron jobs and manual catch-up checks.
func OnceCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("once", flag.ExitOnError)
	_ = fs.Parse(args)

	lock, err := state.AcquireLock(cfg.LockPath)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	runner, err := buildRunner(context.Background(), cfg)
	if err != nil {
		return err
	}

	stats, err := runner.RunCycle(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("✓ Cycle %s complete: %d fetched, %d skipped, %d processed, %d failed\n",
		stats.CycleID, stats.Fetched, stats.Skipped, stats.Processed, stats.Failed)
	return nil
}

// WatchCommand runs cycles on the configured poll interval until
// interrupted. The stop signal is honored between cycles; a cycle in
// flight completes or fails before the process exits.
func WatchCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	_ = fs.Parse(args)

	lock, err := state.AcquireLock(cfg.LockPath)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	ctx := context.Background()
	runner, err := buildRunner(ctx, cfg)
	if err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	fmt.Printf("Watching label %q every %s (recipient %s). Press Ctrl+C to stop.\n",
		cfg.EmailLabel, cfg.PollInterval, cfg.SummaryRecipient)

	// Initial catch-up check before the first tick
	runCycleLogged(ctx, runner)

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runCycleLogged(ctx, runner)
		case sig := <-sigChan:
			fmt.Printf("\nReceived %s, stopping.\n", sig)
			return nil
		}
	}
}

func runCycleLogged(ctx context.Context, runner cycleRunner) {
	stats, err := runner.RunCycle(ctx)
	if err != nil {
		// Collaborator failure: log and wait for the next tick.
		log.Printf("✗ cycle failed: %v", err)
		return
	}
	if stats.Processed > 0 || stats.Failed > 0 {
		fmt.Printf("✓ Cycle %s: %d processed, %d failed\n", stats.CycleID, stats.Processed, stats.Failed)
	}
}
