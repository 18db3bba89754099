package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentic-research/resgen/api"
	"github.com/agentic-research/resgen/internal/config"
	"github.com/agentic-research/resgen/internal/generate"
	"github.com/agentic-research/resgen/internal/ingest"
	"github.com/agentic-research/resgen/internal/ledger"
	"github.com/agentic-research/resgen/internal/runlock"
	"github.com/agentic-research/resgen/internal/store"
)

type generateFlags struct {
	namespace string
	indent    int
	clean     bool
	dryRun    bool
}

func newGenerateCmd(g *globalFlags) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate <description>",
		Short: "Generate documents from a description file (.json or .hcl)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cmd.Flags().Changed("indent") {
				if f.indent < 0 || f.indent > config.MaxIndent {
					return fmt.Errorf("--indent must be between 0 and %d", config.MaxIndent)
				}
				cfg.Indent = f.indent
			}
			return runGenerate(cmd, cfg, log, f, args[0])
		},
	}

	cmd.Flags().StringVarP(&f.namespace, "namespace", "n", "", "Default namespace (overrides config and description)")
	cmd.Flags().IntVar(&f.indent, "indent", 2, "JSON indent width")
	cmd.Flags().BoolVar(&f.clean, "clean", false, "Remove stale generated documents after the run")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "With --clean, report stale documents without removing them")
	return cmd
}

func runGenerate(cmd *cobra.Command, cfg *config.Config, log *zap.Logger, f *generateFlags, descPath string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	desc, err := api.LoadDescription(descPath)
	if err != nil {
		return err
	}

	ns := cfg.Namespace
	if desc.Namespace != "" {
		ns = desc.Namespace
	}
	if f.namespace != "" {
		ns = f.namespace
	}

	lock, err := runlock.Acquire(cfg.LedgerPath + ".lock")
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	fs, err := openRoot(cfg.ResourceDir)
	if err != nil {
		return err
	}

	w := store.NewWriter(fs, store.WithIndent(cfg.Indent), store.WithLogger(log))
	m := generate.NewManager(w,
		generate.WithNamespace(ns),
		generate.WithDefaultLanguage(cfg.DefaultLanguage),
		generate.WithLogger(log))

	stats, err := ingest.NewEngine(desc, m, ingest.WithLogger(log)).Run(ctx)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	flushed, err := m.Flush()
	if err != nil {
		return err
	}

	ls, err := ledger.OpenSQLiteStore(cfg.LedgerPath)
	if err != nil {
		return err
	}
	defer func() { _ = ls.Close() }()
	runID, err := ls.SaveRun(ctx, cfg.ResourceDir, w.Ledger())
	if err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	log.Info("run recorded",
		zap.String("run_id", runID),
		zap.Int("rules", stats.Rules),
		zap.Int("matches", stats.Matches),
		zap.Int("aggregated", len(flushed)))

	printSummary(out, w.Ledger().Summary(), w.Warnings())

	if !f.clean {
		return nil
	}
	report, err := store.Cleanup(fs, w.Ledger(), store.CleanupOptions{DryRun: f.dryRun, Logger: log})
	if err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}
	printCleanup(out, report, f.dryRun)
	return nil
}

func openRoot(dir string) (billy.Filesystem, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create resource root: %w", err)
	}
	return osfs.New(dir), nil
}

func printSummary(out io.Writer, s ledger.Summary, warnings []*store.TargetError) {
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	green.Fprintf(out, "Written:   %d\n", s.Written)
	cyan.Fprintf(out, "Unchanged: %d\n", s.Identical)
	yellow.Fprintf(out, "Protected: %d\n", s.Protected)
	for _, w := range warnings {
		yellow.Fprintf(out, "warning: %v\n", w)
	}
}

func printCleanup(out io.Writer, r *store.CleanupReport, dryRun bool) {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	verb := "Removed"
	if dryRun {
		verb = "Would remove"
	}
	for _, p := range r.Removed {
		red.Fprintf(out, "%s %s\n", verb, p)
	}
	for _, a := range r.Ambiguous {
		yellow.Fprintf(out, "Kept unparseable %s\n", a.Path)
	}
	_, _ = fmt.Fprintf(out, "%s %d of %d scanned documents\n", verb, len(r.Removed), r.Scanned)
}
