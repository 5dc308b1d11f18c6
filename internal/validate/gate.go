// Package validate holds the boolean gates that keep non-factual text out of
// quizzes: a gibberish gate for OCR noise, an invalid-content gate for
// exercise prompts and section labels, and the option-validity gate every
// multiple-choice option must pass. All gates are pure predicates.
package validate

import (
	"regexp"
	"strings"

	"github.com/ppiankov/notequiz/internal/lexicon"
)

const (
	minContentWords = 5 // Fewer words is a heading, not an explanation
	minOptionWords  = 6
)

// numberedExercise matches "1. ..." and "2) ..." prompts
var numberedExercise = regexp.MustCompile(`^\s*\d+[.)]\s+`)

// Gate applies the content gates using one lexicon's label and keyword tables
type Gate struct {
	labels   []string
	labelSet map[string]bool
	keywords []string
}

// NewGate creates a gate for the given lexicon (nil means the default lexicon)
func NewGate(lex *lexicon.Lexicon) *Gate {
	if lex == nil {
		lex = lexicon.Default()
	}

	g := &Gate{
		labelSet: make(map[string]bool, len(lex.GenericLabels)),
	}
	for _, label := range lex.GenericLabels {
		label = strings.ToLower(strings.TrimSpace(label))
		if label == "" {
			continue
		}
		g.labels = append(g.labels, label)
		g.labelSet[label] = true
	}
	for _, kw := range lex.WorkbookKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			g.keywords = append(g.keywords, kw)
		}
	}
	return g
}

// IsInvalidContent reports whether a definition is unfit as quiz material:
// a question, a numbered exercise, a short heading, a generic section label
// or a workbook instruction.
func (g *Gate) IsInvalidContent(s string) bool {
	trimmed := strings.TrimSpace(s)

	if IsInterrogative(trimmed) {
		return true
	}

	if numberedExercise.MatchString(trimmed) {
		return true
	}

	if len(strings.Fields(trimmed)) < minContentWords {
		return true
	}

	lower := strings.ToLower(trimmed)
	for _, label := range g.labels {
		if lower == label || strings.HasPrefix(lower, label+" ") || strings.HasSuffix(lower, " "+label) {
			return true
		}
	}

	for _, kw := range g.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}

// IsInterrogative reports whether s is phrased as a question
func IsInterrogative(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.Contains(trimmed, "?") || strings.HasPrefix(trimmed, "¿")
}

// IsValidOption reports whether s can be shown as a multiple-choice option
func (g *Gate) IsValidOption(s string) bool {
	trimmed := strings.TrimSpace(s)

	if strings.Contains(trimmed, "?") {
		return false
	}

	if len(strings.Fields(trimmed)) < minOptionWords {
		return false
	}

	return !g.labelSet[strings.ToLower(trimmed)]
}
