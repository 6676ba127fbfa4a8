package toml

import (
	"fmt"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Dialects []dialectSchema `toml:"dialects"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported dialects schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type dialectSchema struct {
	ID            string            `toml:"id"`
	Description   string            `toml:"description,omitempty"`
	Command       []string          `toml:"command,omitempty"`
	Prompt        string            `toml:"prompt"`
	SubPrompt     string            `toml:"sub_prompt,omitempty"`
	HistoryFilter string            `toml:"history_filter,omitempty"`
	Features      map[string]string `toml:"features"`
}

func toSchema(dialect domain.Dialect) dialectSchema {
	features := make(map[string]string, len(dialect.Features))
	for feature, template := range dialect.Features {
		features[string(feature)] = template
	}

	return dialectSchema{
		ID:            string(dialect.ID),
		Description:   dialect.Description,
		Command:       dialect.Command,
		Prompt:        dialect.Prompt,
		SubPrompt:     dialect.SubPrompt,
		HistoryFilter: dialect.HistoryFilter,
		Features:      features,
	}
}

func fromSchema(entry dialectSchema) domain.Dialect {
	features := make(map[domain.Feature]string, len(entry.Features))
	for feature, template := range entry.Features {
		features[domain.Feature(feature)] = template
	}

	return domain.Dialect{
		ID:            domain.DialectID(entry.ID),
		Description:   entry.Description,
		Command:       entry.Command,
		Prompt:        entry.Prompt,
		SubPrompt:     entry.SubPrompt,
		HistoryFilter: entry.HistoryFilter,
		Features:      features,
	}
}
