package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/pilisp/emacs-inf-pilisp/internal/adapters/ui/terminal"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded REPL input",
	}
	cmd.AddCommand(newHistoryListCmd(app))
	return cmd
}

func newHistoryListCmd(app *app) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent inputs, oldest first",
		Args:  cobra.NoArgs,
		RunE: app.runE(wireOptions{history: true}, func(cmd *cobra.Command, _ []string) error {
			entries, err := app.service.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(entries)
			}

			for _, entry := range entries {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%5d  %-8s %s\n", entry.Seq, entry.Dialect, terminal.Sanitize(entry.Input)); err != nil {
					return err
				}
			}
			return nil
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")

	return cmd
}
