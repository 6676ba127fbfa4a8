package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pilisp/emacs-inf-pilisp/internal/application"
	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/spf13/cobra"
)

// lookupResult is what a feature lookup prints. Supported is false when the
// session's dialect has no template for it.
type lookupResult struct {
	Text      string
	Supported bool
}

// lookup is one feature request, shared by the one-shot commands and the
// REPL's comma commands.
type lookup struct {
	name    string
	arg     string
	short   string
	feature domain.Feature
	run     func(ctx context.Context, svc *application.Service, arg string) (lookupResult, error)
}

func fromAnswer(answer domain.Answer, err error) (lookupResult, error) {
	return lookupResult{Text: answer.Text, Supported: answer.Supported}, err
}

func fromText(text string, err error) (lookupResult, error) {
	return lookupResult{Text: text, Supported: true}, err
}

var lookups = []lookup{
	{
		name:    "doc",
		arg:     "SYMBOL",
		short:   "Show the documentation of a symbol",
		feature: domain.FeatureDoc,
		run: func(ctx context.Context, svc *application.Service, arg string) (lookupResult, error) {
			return fromText(svc.Doc(ctx, "", arg))
		},
	},
	{
		name:    "source",
		arg:     "SYMBOL",
		short:   "Show the source of a symbol",
		feature: domain.FeatureSource,
		run: func(ctx context.Context, svc *application.Service, arg string) (lookupResult, error) {
			return fromText(svc.Source(ctx, "", arg))
		},
	},
	{
		name:    "load",
		arg:     "FILE",
		short:   "Load a file into the evaluator",
		feature: domain.FeatureLoadFile,
		run: func(ctx context.Context, svc *application.Service, arg string) (lookupResult, error) {
			path, err := filepath.Abs(arg)
			if err != nil {
				return lookupResult{}, fmt.Errorf("resolve %s: %w", arg, err)
			}
			return fromText(svc.LoadFile(ctx, "", path))
		},
	},
	{
		name:    "apropos",
		arg:     "PATTERN",
		short:   "List symbols matching a pattern",
		feature: domain.FeatureApropos,
		run: func(ctx context.Context, svc *application.Service, arg string) (lookupResult, error) {
			return fromAnswer(svc.Apropos(ctx, "", arg))
		},
	},
	{
		name:    "arglist",
		arg:     "SYMBOL",
		short:   "Show the argument lists of a function",
		feature: domain.FeatureArglists,
		run: func(ctx context.Context, svc *application.Service, arg string) (lookupResult, error) {
			return fromAnswer(svc.Arglists(ctx, "", arg))
		},
	},
	{
		name:    "complete",
		arg:     "PREFIX",
		short:   "List completions for a prefix",
		feature: domain.FeatureCompletion,
		run: func(ctx context.Context, svc *application.Service, arg string) (lookupResult, error) {
			completions, err := svc.Completions(ctx, "", arg)
			return lookupResult{Text: strings.Join(completions.Candidates, "\n"), Supported: completions.Supported}, err
		},
	},
	{
		name:    "macroexpand",
		arg:     "FORM",
		short:   "Expand the macros of a form",
		feature: domain.FeatureMacroexpand,
		run: func(ctx context.Context, svc *application.Service, arg string) (lookupResult, error) {
			return fromAnswer(svc.Macroexpand(ctx, "", arg, false))
		},
	},
	{
		name:    "macroexpand-1",
		arg:     "FORM",
		short:   "Expand the outermost macro of a form once",
		feature: domain.FeatureMacroexpand1,
		run: func(ctx context.Context, svc *application.Service, arg string) (lookupResult, error) {
			return fromAnswer(svc.Macroexpand(ctx, "", arg, true))
		},
	},
	{
		name:    "ns",
		arg:     "NAMESPACE",
		short:   "Switch the evaluator to a namespace",
		feature: domain.FeatureSetNamespace,
		run: func(ctx context.Context, svc *application.Service, arg string) (lookupResult, error) {
			return fromAnswer(svc.SetNamespace(ctx, "", arg))
		},
	},
	{
		name:    "ns-vars",
		arg:     "NAMESPACE",
		short:   "List the public vars of a namespace",
		feature: domain.FeatureNamespaceVar,
		run: func(ctx context.Context, svc *application.Service, arg string) (lookupResult, error) {
			return fromAnswer(svc.NamespaceVars(ctx, "", arg))
		},
	},
	{
		name:    "reload",
		arg:     "NAMESPACE",
		short:   "Reload a namespace",
		feature: domain.FeatureReload,
		run: func(ctx context.Context, svc *application.Service, arg string) (lookupResult, error) {
			return fromAnswer(svc.Reload(ctx, "", arg, false))
		},
	},
	{
		name:    "reload-all",
		arg:     "NAMESPACE",
		short:   "Reload a namespace and everything it requires",
		feature: domain.FeatureReloadAll,
		run: func(ctx context.Context, svc *application.Service, arg string) (lookupResult, error) {
			return fromAnswer(svc.Reload(ctx, "", arg, true))
		},
	},
}

func findLookup(name string) (lookup, bool) {
	for _, l := range lookups {
		if l.name == name {
			return l, true
		}
	}
	return lookup{}, false
}

// newLookupCmd starts a session, runs one feature request and prints the
// reply.
func newLookupCmd(app *app, l lookup) *cobra.Command {
	flags := &sessionFlags{}

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s [flags] %s", l.name, l.arg),
		Short: l.short,
		Args:  cobra.MinimumNArgs(1),
		RunE: app.runE(wireOptions{}, func(cmd *cobra.Command, args []string) error {
			session, err := startSession(cmd, app, flags)
			if err != nil {
				return err
			}

			var result lookupResult
			err = withSpinner(cmd.Context(), cmd.ErrOrStderr(), fmt.Sprintf("Waiting for %s...", session.Info().Name), func(ctx context.Context) error {
				var err error
				result, err = l.run(ctx, app.service, strings.Join(args, " "))
				return err
			})
			if err != nil {
				return err
			}

			return writeLookupResult(app, l, session.Dialect(), result)
		}),
	}
	flags.register(cmd)

	return cmd
}

func writeLookupResult(app *app, l lookup, dialect domain.DialectID, result lookupResult) error {
	if !result.Supported {
		_, err := fmt.Fprintf(app.stderr, "%s is not supported by dialect %s\n", l.feature, dialect)
		return err
	}
	if result.Text == "" {
		return nil
	}
	_, err := fmt.Fprintln(app.stdout, result.Text)
	return err
}
