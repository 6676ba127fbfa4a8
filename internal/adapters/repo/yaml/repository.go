package yaml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	"gopkg.in/yaml.v3"
)

// Repository keeps user dialects in a YAML document:
//
//	dialects:
//	  - id: racket
//	    prompt: "> "
//	    features:
//	      doc: (describe %s)
type Repository struct {
	path string
	mu   sync.RWMutex
}

var _ ports.DialectRepository = (*Repository)(nil)

type document struct {
	Dialects []dialectEntry `yaml:"dialects"`
}

type dialectEntry struct {
	ID            string            `yaml:"id"`
	Description   string            `yaml:"description,omitempty"`
	Command       []string          `yaml:"command,omitempty"`
	Prompt        string            `yaml:"prompt"`
	SubPrompt     string            `yaml:"sub_prompt,omitempty"`
	HistoryFilter string            `yaml:"history_filter,omitempty"`
	Features      map[string]string `yaml:"features"`
}

func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("dialects path is empty")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve dialects path: %w", err)
	}
	return &Repository{path: filepath.Clean(absPath)}, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) List(ctx context.Context) ([]domain.Dialect, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, err := r.read()
	if err != nil {
		return nil, err
	}

	dialects := make([]domain.Dialect, 0, len(doc.Dialects))
	for _, entry := range doc.Dialects {
		dialects = append(dialects, entry.toDomain())
	}
	return dialects, nil
}

func (r *Repository) Save(ctx context.Context, dialect domain.Dialect) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := dialect.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return err
	}

	entry := fromDomain(dialect)
	replaced := false
	for i := range doc.Dialects {
		if doc.Dialects[i].ID == entry.ID {
			doc.Dialects[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Dialects = append(doc.Dialects, entry)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode dialects file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("create dialects directory: %w", err)
	}

	tempName := r.path + ".tmp"
	if err := os.WriteFile(tempName, data, 0o600); err != nil {
		return fmt.Errorf("write temp dialects file: %w", err)
	}
	if err := os.Rename(tempName, r.path); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("replace dialects file: %w", err)
	}
	return nil
}

func (r *Repository) read() (document, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document{}, nil
		}
		return document{}, fmt.Errorf("read dialects file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("decode dialects file: %w", err)
	}
	return doc, nil
}

func (e dialectEntry) toDomain() domain.Dialect {
	features := make(map[domain.Feature]string, len(e.Features))
	for feature, template := range e.Features {
		features[domain.Feature(feature)] = template
	}

	return domain.Dialect{
		ID:            domain.DialectID(e.ID),
		Description:   e.Description,
		Command:       e.Command,
		Prompt:        e.Prompt,
		SubPrompt:     e.SubPrompt,
		HistoryFilter: e.HistoryFilter,
		Features:      features,
	}
}

func fromDomain(dialect domain.Dialect) dialectEntry {
	features := make(map[string]string, len(dialect.Features))
	for feature, template := range dialect.Features {
		features[string(feature)] = template
	}

	return dialectEntry{
		ID:            string(dialect.ID),
		Description:   dialect.Description,
		Command:       dialect.Command,
		Prompt:        dialect.Prompt,
		SubPrompt:     dialect.SubPrompt,
		HistoryFilter: dialect.HistoryFilter,
		Features:      features,
	}
}
