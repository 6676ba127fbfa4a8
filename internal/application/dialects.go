package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
)

// Dialects publishes the current feature table. Readers take a snapshot
// without locking; writers are serialized and swap in a new table.
type Dialects struct {
	mu    sync.Mutex
	table atomic.Pointer[domain.FeatureTable]
}

func NewDialects(initial ...domain.Dialect) (*Dialects, error) {
	for _, dialect := range initial {
		if err := dialect.Validate(); err != nil {
			return nil, err
		}
	}

	d := &Dialects{}
	table := domain.NewFeatureTable(initial...)
	d.table.Store(&table)
	return d, nil
}

func (d *Dialects) Table() domain.FeatureTable {
	return *d.table.Load()
}

func (d *Dialects) Register(dialect domain.Dialect) error {
	if err := dialect.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	next := d.Table().Register(dialect)
	d.table.Store(&next)
	return nil
}

// Override replaces one template of a registered dialect.
func (d *Dialects) Override(id domain.DialectID, feature domain.Feature, template string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	next, err := d.Table().Update(id, feature, template)
	if err != nil {
		return err
	}
	d.table.Store(&next)
	return nil
}

func (d *Dialects) Template(id domain.DialectID, feature domain.Feature, mode domain.LookupMode) (string, bool, error) {
	return d.Table().Get(id, feature, mode)
}

func (d *Dialects) Dialect(id domain.DialectID) (domain.Dialect, error) {
	dialect, ok := d.Table().Dialect(id)
	if !ok {
		return domain.Dialect{}, fmt.Errorf("%w: %q", domain.ErrUnknownDialect, id)
	}
	return dialect, nil
}

func (d *Dialects) List() []domain.Dialect {
	return d.Table().Dialects()
}

// Load registers every dialect the repository knows about, replacing
// same-named entries.
func (d *Dialects) Load(ctx context.Context, repo ports.DialectRepository) (int, error) {
	dialects, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list dialects: %w", err)
	}

	for _, dialect := range dialects {
		if err := dialect.Validate(); err != nil {
			return 0, fmt.Errorf("load dialect: %w", err)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	next := d.Table()
	for _, dialect := range dialects {
		next = next.Register(dialect)
	}
	d.table.Store(&next)

	return len(dialects), nil
}

// Define registers dialect and persists it. The previous table is restored
// when the repository refuses the write.
func (d *Dialects) Define(ctx context.Context, repo ports.DialectRepository, dialect domain.Dialect) error {
	if err := dialect.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	previous := d.table.Load()
	next := previous.Register(dialect)
	d.table.Store(&next)

	if err := repo.Save(ctx, dialect); err != nil {
		d.table.Store(previous)
		return fmt.Errorf("save dialect %s: %w", dialect.ID, err)
	}

	return nil
}

// SetTemplate overrides one template and persists the whole dialect.
func (d *Dialects) SetTemplate(ctx context.Context, repo ports.DialectRepository, id domain.DialectID, feature domain.Feature, template string) error {
	dialect, err := d.Dialect(id)
	if err != nil {
		return err
	}
	dialect.Features[feature] = template
	return d.Define(ctx, repo, dialect)
}
