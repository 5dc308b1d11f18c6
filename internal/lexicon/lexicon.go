// Package lexicon holds the fixed word tables used by the extraction and
// synthesis stages: separators, generic labels, workbook keywords, paraphrase
// rules and the question wording. Tables are data so they can be localized or
// extended without touching the algorithms that read them.
package lexicon

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultName is the built-in lexicon used when none is configured
const DefaultName = "eu-es"

// NegationRule rewrites a verb form into its negated form: Prefix + word + Suffix
type NegationRule struct {
	Words  []string `yaml:"words"`
	Prefix string   `yaml:"prefix,omitempty"`
	Suffix string   `yaml:"suffix,omitempty"`
}

// Lexicon is a read-only set of tables. Do not mutate a Lexicon after it has
// been handed to an extractor, gate or synthesizer.
type Lexicon struct {
	Name string `yaml:"name"`

	// Extraction
	Separators    []string `yaml:"separators"`
	BulletMarkers []string `yaml:"bullet_markers"`

	// Content gates
	GenericLabels    []string `yaml:"generic_labels"`
	WorkbookKeywords []string `yaml:"workbook_keywords"`

	// Distractor paraphrasing
	NegationRules []NegationRule      `yaml:"negation_rules"`
	TemporalSwaps []map[string]string `yaml:"temporal_swaps"`
	Fillers       []string            `yaml:"fillers"`

	// Question wording
	StemTemplate   string `yaml:"stem_template"`
	Explanation    string `yaml:"explanation"`
	AbstainMessage string `yaml:"abstain_message"`
}

var builtins = map[string]func() *Lexicon{
	"eu-es": basqueSpanish,
	"en":    english,
}

// Default returns the default built-in lexicon
func Default() *Lexicon {
	return basqueSpanish()
}

// Names lists the built-in lexicon names
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns a fresh copy of a built-in lexicon
func ByName(name string) (*Lexicon, error) {
	if name == "" {
		name = DefaultName
	}
	build, ok := builtins[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown lexicon: %s (available: %s)", name, strings.Join(Names(), ", "))
	}
	return build(), nil
}

// Load builds the named built-in lexicon and, when path is set, overlays the
// YAML file at path on top of it. Non-empty tables in the file replace the
// built-in tables; empty or missing tables keep the built-in values.
func Load(name, path string) (*Lexicon, error) {
	lex, err := ByName(name)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return lex, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon file: %w", err)
	}

	var overlay Lexicon
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse lexicon file: %w", err)
	}

	lex.merge(&overlay)
	if err := lex.Validate(); err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	return lex, nil
}

// Validate checks that the tables the algorithms depend on are usable
func (l *Lexicon) Validate() error {
	if len(l.Separators) == 0 {
		return fmt.Errorf("at least one separator is required")
	}
	for _, sep := range l.Separators {
		if strings.TrimSpace(sep) == "" {
			return fmt.Errorf("separator %q has no visible character", sep)
		}
	}
	if strings.Count(l.StemTemplate, "%s") != 1 {
		return fmt.Errorf("stem template must contain exactly one %%s: %q", l.StemTemplate)
	}
	return nil
}

// Stem renders the question stem for a term
func (l *Lexicon) Stem(term string) string {
	return fmt.Sprintf(l.StemTemplate, term)
}

// Marshal renders the lexicon as YAML (used by `config init --lexicon`)
func (l *Lexicon) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}

func (l *Lexicon) merge(o *Lexicon) {
	if o.Name != "" {
		l.Name = o.Name
	}
	if len(o.Separators) > 0 {
		l.Separators = o.Separators
	}
	if len(o.BulletMarkers) > 0 {
		l.BulletMarkers = o.BulletMarkers
	}
	if len(o.GenericLabels) > 0 {
		l.GenericLabels = lowerAll(o.GenericLabels)
	}
	if len(o.WorkbookKeywords) > 0 {
		l.WorkbookKeywords = lowerAll(o.WorkbookKeywords)
	}
	if len(o.NegationRules) > 0 {
		l.NegationRules = o.NegationRules
	}
	if len(o.TemporalSwaps) > 0 {
		l.TemporalSwaps = o.TemporalSwaps
	}
	if len(o.Fillers) > 0 {
		l.Fillers = o.Fillers
	}
	if o.StemTemplate != "" {
		l.StemTemplate = o.StemTemplate
	}
	if o.Explanation != "" {
		l.Explanation = o.Explanation
	}
	if o.AbstainMessage != "" {
		l.AbstainMessage = o.AbstainMessage
	}
}

// labels and keywords are matched against lower-cased text
func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(strings.TrimSpace(w))
	}
	return out
}
