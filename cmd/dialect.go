package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/spf13/cobra"
)

func newDialectCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dialect",
		Short: "Inspect and define evaluator dialects",
	}

	cmd.AddCommand(
		newDialectListCmd(app),
		newDialectShowCmd(app),
		newDialectSetCmd(app),
		newDialectAddCmd(app),
	)

	return cmd
}

func newDialectListCmd(app *app) *cobra.Command {
	var (
		verbose bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in and user dialects",
		Args:  cobra.NoArgs,
		RunE: app.runE(wireOptions{}, func(cmd *cobra.Command, _ []string) error {
			return writeDialectsOutput(cmd, app, app.dialects.List(), verbose, asJSON)
		}),
	}
	cmd.Flags().BoolVar(&verbose, "templates", false, "Show the command template of every feature")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print dialects as JSON")

	return cmd
}

func newDialectShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show DIALECT",
		Short: "Show one dialect with its templates",
		Args:  cobra.ExactArgs(1),
		RunE: app.runE(wireOptions{}, func(cmd *cobra.Command, args []string) error {
			dialect, err := app.dialects.Dialect(domain.DialectID(args[0]))
			if err != nil {
				return err
			}
			return writeDialectsOutput(cmd, app, []domain.Dialect{dialect}, true, asJSON)
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the dialect as JSON")

	return cmd
}

func newDialectSetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set DIALECT FEATURE TEMPLATE",
		Short: "Override one feature template and save it to the dialects file",
		Args:  cobra.ExactArgs(3),
		RunE: app.runE(wireOptions{}, func(cmd *cobra.Command, args []string) error {
			feature, err := parseFeature(args[1])
			if err != nil {
				return err
			}
			if err := app.dialects.SetTemplate(cmd.Context(), app.dialectRepo, domain.DialectID(args[0]), feature, args[2]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %s %s to %s\n", args[0], feature, app.dialectRepo.Path())
			return err
		}),
	}
}

func newDialectAddCmd(app *app) *cobra.Command {
	var (
		description   string
		command       string
		prompt        string
		subPrompt     string
		historyFilter string
		features      []string
		from          string
	)

	cmd := &cobra.Command{
		Use:   "add DIALECT",
		Short: "Define a dialect and save it to the dialects file",
		Args:  cobra.ExactArgs(1),
		RunE: app.runE(wireOptions{}, func(cmd *cobra.Command, args []string) error {
			dialect := domain.Dialect{ID: domain.DialectID(args[0])}
			if from != "" {
				base, err := app.dialects.Dialect(domain.DialectID(from))
				if err != nil {
					return err
				}
				dialect = base
				dialect.ID = domain.DialectID(args[0])
			}
			if dialect.Features == nil {
				dialect.Features = map[domain.Feature]string{}
			}

			flags := cmd.Flags()
			if flags.Changed("description") {
				dialect.Description = description
			}
			if flags.Changed("command") {
				dialect.Command = strings.Fields(command)
			}
			if flags.Changed("prompt") {
				dialect.Prompt = prompt
			}
			if flags.Changed("sub-prompt") {
				dialect.SubPrompt = subPrompt
			}
			if flags.Changed("history-filter") {
				dialect.HistoryFilter = historyFilter
			}
			for _, raw := range features {
				name, template, ok := strings.Cut(raw, "=")
				if !ok {
					return fmt.Errorf("invalid --feature %q: expected NAME=TEMPLATE", raw)
				}
				feature, err := parseFeature(name)
				if err != nil {
					return err
				}
				dialect.Features[feature] = template
			}

			if err := app.dialects.Define(cmd.Context(), app.dialectRepo, dialect); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "saved dialect %s to %s\n", dialect.ID, app.dialectRepo.Path())
			return err
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "Start from a copy of an existing dialect")
	cmd.Flags().StringVar(&description, "description", "", "Human-readable description")
	cmd.Flags().StringVar(&command, "command", "", "Default command line of the evaluator")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Regular expression matching the evaluator prompt")
	cmd.Flags().StringVar(&subPrompt, "sub-prompt", "", "Regular expression matching continuation prompts")
	cmd.Flags().StringVar(&historyFilter, "history-filter", "", "Regular expression of inputs kept out of history")
	cmd.Flags().StringArrayVar(&features, "feature", nil, "Feature template as NAME=TEMPLATE (repeatable)")

	return cmd
}

func writeDialectsOutput(cmd *cobra.Command, app *app, dialects []domain.Dialect, verbose, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(dialects)
	}

	rendered, err := app.dialectRenderer(dialects, verbose)
	if err != nil {
		return fmt.Errorf("render dialects: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

var knownFeatures = []domain.Feature{
	domain.FeatureDoc,
	domain.FeatureSource,
	domain.FeatureLoadFile,
	domain.FeatureApropos,
	domain.FeatureArglists,
	domain.FeatureCompletion,
	domain.FeatureMacroexpand,
	domain.FeatureMacroexpand1,
	domain.FeatureSetNamespace,
	domain.FeatureNamespaceVar,
	domain.FeatureReload,
	domain.FeatureReloadAll,
}

func parseFeature(raw string) (domain.Feature, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, feature := range knownFeatures {
		if string(feature) == normalized {
			return feature, nil
		}
	}
	return "", fmt.Errorf("unknown feature %q", raw)
}
