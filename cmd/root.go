// Package cmd is the resgen command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentic-research/resgen/internal/config"
	"github.com/agentic-research/resgen/internal/logging"
)

// Set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configDir string
	root      string
	ledger    string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "resgen",
		Short: "Generate data pack and resource pack documents",
		Long: `resgen writes generated JSON resources (blockstates, models, recipes,
loot tables, tags, lang files) from a description file. Unchanged documents
are not rewritten, hand-written documents are never overwritten, and stale
generated documents can be removed with "resgen clean".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configDir, "config-dir", ".", "Directory holding resgen.yaml")
	pf.StringVarP(&g.root, "root", "r", "", "Resource root (default: resource_dir from config)")
	pf.StringVar(&g.ledger, "ledger", "", "Ledger database path (default: ledger_path from config)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(newGenerateCmd(g))
	rootCmd.AddCommand(newCleanCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// setup loads configuration and builds the logger. Flags given on the
// command line win over the config file.
func (g *globalFlags) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(g.configDir)
	if err != nil {
		return nil, nil, err
	}
	if g.root != "" {
		cfg.ResourceDir = g.root
	}
	if g.ledger != "" {
		cfg.LedgerPath = g.ledger
	}
	log, err := logging.New(cfg.LogMode, g.verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
