package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antoniostano/simhelper/internal/app"
	"github.com/antoniostano/simhelper/internal/config"
	"github.com/antoniostano/simhelper/internal/observability"
	"github.com/antoniostano/simhelper/internal/protocol"
)

func newAskCmd() *cobra.Command {
	var (
		lang    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Answer one message through the chat pipeline without HTTP",
		Long: `Run a single message through matching, generation, translation and the
memory log exactly as POST /api/chat would.

Examples:
  simhelper ask "How do I upload my report?"
  simhelper ask --lang fr "I have a headache"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level := "warn"
			if verbose {
				level = "debug"
			}
			logger := observability.NewLogger(level, "console")

			ctx := cmd.Context()
			built, err := app.Build(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer built.Cleanup()

			reply, err := built.Dispatcher.Handle(ctx, strings.Join(args, " "), lang)
			if err != nil {
				return err
			}
			if verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "route: %s\n", reply.Route)
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", protocol.DefaultLang, "reply language code")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline details to stderr")
	return cmd
}
