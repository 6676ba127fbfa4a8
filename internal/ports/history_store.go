package ports

import (
	"context"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
)

type HistoryStore interface {
	Add(ctx context.Context, entry domain.HistoryEntry) (int, error)
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}
