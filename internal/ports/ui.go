package ports

import (
	"context"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
)

// SessionSelector asks the user to pick one of several live sessions. It
// returns domain.ErrSelectionCancelled when the user declines.
type SessionSelector interface {
	SelectSession(ctx context.Context, candidates []domain.SessionInfo) (domain.SessionID, error)
}

type ValuePrompter interface {
	PromptValue(ctx context.Context, label string, defaultValue string) (string, error)
}

type Display interface {
	Show(ctx context.Context, title string, text string) error
}
