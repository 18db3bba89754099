package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentic-research/resgen/internal/ledger"
	"github.com/agentic-research/resgen/internal/runlock"
	"github.com/agentic-research/resgen/internal/store"
)

// errNoRun is returned by clean when no generate run was recorded for the
// resource root. An empty ledger would mark every generated document as
// stale.
var errNoRun = errors.New("no recorded run for this resource root; run generate first")

func newCleanCmd(g *globalFlags) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove generated documents the last run did not produce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			lock, err := runlock.Acquire(cfg.LedgerPath + ".lock")
			if err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			ls, err := ledger.OpenSQLiteStore(cfg.LedgerPath)
			if err != nil {
				return err
			}
			defer func() { _ = ls.Close() }()

			last, runID, err := ls.LoadLatest(cmd.Context(), cfg.ResourceDir)
			if err != nil {
				return err
			}
			if runID == "" {
				return fmt.Errorf("%w: %s", errNoRun, cfg.ResourceDir)
			}
			log.Debug("cleaning against run", zap.String("run_id", runID), zap.Int("entries", last.Len()))

			fs, err := openRoot(cfg.ResourceDir)
			if err != nil {
				return err
			}
			report, err := store.Cleanup(fs, last, store.CleanupOptions{DryRun: dryRun, Logger: log})
			if err != nil {
				return fmt.Errorf("cleanup: %w", err)
			}
			printCleanup(cmd.OutOrStdout(), report, dryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report stale documents without removing them")
	return cmd
}
