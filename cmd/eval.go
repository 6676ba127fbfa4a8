package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newEvalCmd(app *app) *cobra.Command {
	flags := &sessionFlags{}

	cmd := &cobra.Command{
		Use:   "eval [flags] [FORM...]",
		Short: "Evaluate a form and print the reply",
		Long:  "eval starts an evaluator, sends one form and prints its reply without the prompt. The form is read from stdin when no arguments are given.",
		RunE: app.runE(wireOptions{history: true}, func(cmd *cobra.Command, args []string) error {
			form := strings.Join(args, " ")
			if len(args) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read form: %w", err)
				}
				form = string(raw)
			}
			if strings.TrimSpace(form) == "" {
				return fmt.Errorf("nothing to evaluate")
			}
			if flags.command == "" && flags.connect == "" && len(args) == 0 {
				return fmt.Errorf("--command or --connect is required when the form is read from stdin")
			}

			session, err := startSession(cmd, app, flags)
			if err != nil {
				return err
			}

			var reply string
			err = withSpinner(cmd.Context(), cmd.ErrOrStderr(), fmt.Sprintf("Evaluating in %s...", session.Info().Name), func(ctx context.Context) error {
				var err error
				reply, err = app.service.Evaluate(ctx, session.ID(), form)
				return err
			})
			if err != nil {
				return err
			}

			if reply == "" {
				return nil
			}
			_, err = fmt.Fprintln(app.stdout, reply)
			return err
		}),
	}
	flags.register(cmd)

	return cmd
}
