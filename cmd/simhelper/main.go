package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version, commit, date are injected by the linker via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	root := &cobra.Command{
		Use:   "simhelper",
		Short: "SIMHEALTH helper chat service",
		Long: `simhelper answers SIMHEALTH app and general health questions.

Known app questions are answered from a curated table, other app questions
get a generic usage guide, and everything else goes to a generative backend.
Replies can be translated into the caller's language.

Running without a subcommand starts the HTTP server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.AddCommand(serve, newAskCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "simhelper %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
