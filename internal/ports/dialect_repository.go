package ports

import (
	"context"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
)

// DialectRepository holds user-defined dialects. Save replaces an entry with
// the same id.
type DialectRepository interface {
	List(ctx context.Context) ([]domain.Dialect, error)
	Save(ctx context.Context, dialect domain.Dialect) error
}
