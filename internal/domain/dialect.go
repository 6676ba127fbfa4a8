package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

type DialectID string

type Feature string

const (
	FeatureDoc          Feature = "doc"
	FeatureSource       Feature = "source"
	FeatureLoadFile     Feature = "load-file"
	FeatureApropos      Feature = "apropos"
	FeatureArglists     Feature = "arglists"
	FeatureCompletion   Feature = "completion"
	FeatureMacroexpand  Feature = "macroexpand"
	FeatureMacroexpand1 Feature = "macroexpand-1"
	FeatureSetNamespace Feature = "set-ns"
	FeatureNamespaceVar Feature = "ns-vars"
	FeatureReload       Feature = "reload"
	FeatureReloadAll    Feature = "reload-all"
)

// Placeholder is substituted once with the pipeline argument.
const Placeholder = "%s"

// Dialect describes one evaluator flavour: how it prompts and which features
// it answers, each as a command template.
type Dialect struct {
	ID            DialectID
	Description   string
	Command       []string
	Prompt        string
	SubPrompt     string
	HistoryFilter string
	Features      map[Feature]string
}

func (d Dialect) Validate() error {
	if strings.TrimSpace(string(d.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(d.Prompt) == "" {
		return fmt.Errorf("dialect %s: prompt is required", d.ID)
	}
	if len(d.Features) == 0 {
		return fmt.Errorf("dialect %s: at least one feature is required", d.ID)
	}
	patterns, err := d.Patterns()
	if err != nil {
		return err
	}
	if patterns.Prompt.MatchString("") {
		return fmt.Errorf("dialect %s: prompt %q matches empty output", d.ID, d.Prompt)
	}

	return nil
}

// FeatureNames lists configured features in a stable order.
func (d Dialect) FeatureNames() []Feature {
	names := make([]Feature, 0, len(d.Features))
	for feature := range d.Features {
		names = append(names, feature)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func (d Dialect) clone() Dialect {
	out := d
	out.Command = append([]string(nil), d.Command...)
	out.Features = make(map[Feature]string, len(d.Features))
	for feature, template := range d.Features {
		out.Features[feature] = template
	}
	return out
}

// Patterns holds the compiled boundary expressions of a dialect.
type Patterns struct {
	Prompt        *regexp.Regexp
	SubPrompt     *regexp.Regexp
	HistoryFilter *regexp.Regexp
}

func (d Dialect) Patterns() (Patterns, error) {
	var (
		p   Patterns
		err error
	)

	if p.Prompt, err = regexp.Compile(d.Prompt); err != nil {
		return Patterns{}, fmt.Errorf("dialect %s: compile prompt: %w", d.ID, err)
	}
	if d.SubPrompt != "" {
		if p.SubPrompt, err = regexp.Compile(d.SubPrompt); err != nil {
			return Patterns{}, fmt.Errorf("dialect %s: compile sub-prompt: %w", d.ID, err)
		}
	}
	if d.HistoryFilter != "" {
		if p.HistoryFilter, err = regexp.Compile(d.HistoryFilter); err != nil {
			return Patterns{}, fmt.Errorf("dialect %s: compile history filter: %w", d.ID, err)
		}
	}

	return p, nil
}

// Remember reports whether an input is worth recording in history.
func (p Patterns) Remember(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false
	}
	if p.HistoryFilter == nil {
		return true
	}
	return !p.HistoryFilter.MatchString(trimmed)
}

// FormatCommand substitutes the first placeholder of template with arg.
// The template is opaque; no syntax of the target language is checked.
func FormatCommand(template, arg string) string {
	return strings.Replace(template, Placeholder, arg, 1)
}
