package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "inf-pilisp",
		Short:         "inf-pilisp: drive Lisp REPLs from the terminal",
		Long:          "inf-pilisp starts or connects to Lisp evaluators (PicoLisp, Clojure, Babashka and user-defined dialects), sends them forms and captures their replies up to the next prompt.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default $HOME/.inf-pilisp/config.toml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Disable logging")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Budget for one captured reply (default from config)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	app := newApp(opts)

	rootCmd.AddCommand(
		newVersionCmd(),
		newDialectCmd(app),
		newEvalCmd(app),
		newReplCmd(app),
		newHistoryCmd(app),
	)
	for _, l := range lookups {
		rootCmd.AddCommand(newLookupCmd(app, l))
	}

	return rootCmd
}
