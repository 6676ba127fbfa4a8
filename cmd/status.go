package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	sessionsadapter "github.com/pilisp/emacs-inf-pilisp/internal/adapters/render/sessions"
)

func writeSessionsOutput(w io.Writer, app *app, asJSON bool) error {
	statuses := app.registry.Statuses()

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	rendered, err := app.sessionRenderer(statuses, sessionsadapter.RenderOptions{Now: app.now()})
	if err != nil {
		return fmt.Errorf("render sessions: %w", err)
	}

	_, err = fmt.Fprintln(w, rendered)
	return err
}
