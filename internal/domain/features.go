package domain

import (
	"fmt"
	"sort"
)

type LookupMode int

const (
	LookupStrict LookupMode = iota
	LookupPermissive
)

// FeatureTable maps dialects to their command templates. It is a value:
// Register and Update return a new table and never touch the receiver, so a
// table handed to a reader stays consistent while another goroutine updates.
type FeatureTable struct {
	dialects map[DialectID]Dialect
}

func NewFeatureTable(dialects ...Dialect) FeatureTable {
	table := FeatureTable{}
	for _, dialect := range dialects {
		table = table.Register(dialect)
	}
	return table
}

// Register adds or replaces a whole dialect.
func (t FeatureTable) Register(dialect Dialect) FeatureTable {
	next := t.copyDialects(len(t.dialects) + 1)
	next[dialect.ID] = dialect.clone()
	return FeatureTable{dialects: next}
}

// Update replaces a single template of an already registered dialect.
func (t FeatureTable) Update(id DialectID, feature Feature, template string) (FeatureTable, error) {
	current, ok := t.dialects[id]
	if !ok || len(current.Features) == 0 {
		return t, fmt.Errorf("%w: %q", ErrUnknownDialect, id)
	}

	updated := current.clone()
	updated.Features[feature] = template

	next := t.copyDialects(len(t.dialects))
	next[id] = updated
	return FeatureTable{dialects: next}, nil
}

// Get returns the template for feature. In LookupPermissive mode an absent
// feature yields ok == false and no error.
func (t FeatureTable) Get(id DialectID, feature Feature, mode LookupMode) (string, bool, error) {
	dialect, known := t.dialects[id]
	if known {
		if template, ok := dialect.Features[feature]; ok {
			return template, true, nil
		}
	}

	if mode == LookupPermissive {
		return "", false, nil
	}
	if !known {
		return "", false, fmt.Errorf("%w: %w %q", ErrFeatureNotConfigured, ErrUnknownDialect, id)
	}
	return "", false, fmt.Errorf("%w: %s for dialect %s", ErrFeatureNotConfigured, feature, id)
}

func (t FeatureTable) Dialect(id DialectID) (Dialect, bool) {
	dialect, ok := t.dialects[id]
	if !ok {
		return Dialect{}, false
	}
	return dialect.clone(), true
}

func (t FeatureTable) Dialects() []Dialect {
	out := make([]Dialect, 0, len(t.dialects))
	for _, dialect := range t.dialects {
		out = append(out, dialect.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (t FeatureTable) copyDialects(capacity int) map[DialectID]Dialect {
	next := make(map[DialectID]Dialect, capacity)
	for id, dialect := range t.dialects {
		next[id] = dialect
	}
	return next
}
