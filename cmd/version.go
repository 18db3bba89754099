package cmd

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			title := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()

			title.Fprint(out, "resgen version: ")
			_, _ = fmt.Fprintln(out, Version)
			title.Fprint(out, "Git commit: ")
			_, _ = fmt.Fprintln(out, GitCommit)
			title.Fprint(out, "Go version: ")
			_, _ = fmt.Fprintln(out, runtime.Version())
		},
	}
}
