package toml

import (
	_ "embed"
	"fmt"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
)

//go:embed builtin.toml
var builtinData []byte

// Builtin returns the dialects shipped with the binary.
func Builtin() ([]domain.Dialect, error) {
	file, err := decode(builtinData)
	if err != nil {
		return nil, fmt.Errorf("builtin dialects: %w", err)
	}

	dialects := make([]domain.Dialect, 0, len(file.Dialects))
	for _, entry := range file.Dialects {
		dialect := fromSchema(entry)
		if err := dialect.Validate(); err != nil {
			return nil, fmt.Errorf("builtin dialects: %w", err)
		}
		dialects = append(dialects, dialect)
	}

	return dialects, nil
}
