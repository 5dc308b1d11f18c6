package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ppiankov/notequiz/internal/lexicon"
	"github.com/ppiankov/notequiz/internal/model"
	"github.com/ppiankov/notequiz/internal/validate"
)

const (
	separatorWindow = 60 // Separator must start before this character index
	sentenceWindow  = 50 // ". " must start before this character index

	minTermLen         = 2
	minSeparatorDefLen = 5
	minSentenceDefLen  = 10
	maxHeadingLen      = 40
	minHeadingNextLen  = 10 // The explanation line must be longer than this
	cursorAdvance      = 5
)

// FactExtractor recovers term/definition pairs from note text
type FactExtractor struct {
	separators []string
	bullets    []string
	gate       *validate.Gate
	newID      func() string
}

// NewFactExtractor creates an extractor using the lexicon's separators and
// content gates (nil means the default lexicon)
func NewFactExtractor(lex *lexicon.Lexicon) *FactExtractor {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &FactExtractor{
		separators: lex.Separators,
		bullets:    lex.BulletMarkers,
		gate:       validate.NewGate(lex),
		newID:      uuid.NewString,
	}
}

var defaultExtractor = NewFactExtractor(nil)

// ExtractFacts extracts facts with the default lexicon
func ExtractFacts(text, fallbackSourceID string) []model.Fact {
	return defaultExtractor.Extract(text, fallbackSourceID)
}

type candidate struct {
	term    string
	def     string
	pattern model.FactPattern
}

// Extract returns the facts found in text, in line order. Every line is tried
// against the separator, sentence and heading patterns in that order and the
// first match wins. Candidates failing the gibberish or invalid-content gates
// are dropped.
func (e *FactExtractor) Extract(text, fallbackSourceID string) []model.Fact {
	lines := NormalizeLines(text)
	var facts []model.Fact
	cursor := 0

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		cand, ok := e.matchSeparator(line.Clean)
		if !ok {
			cand, ok = matchSentence(line.Clean)
		}

		var consumed string
		if !ok && i+1 < len(lines) {
			next := lines[i+1]
			if cand, ok = e.matchHeading(line, next); ok {
				consumed = next.Raw
				i++ // the explanation line is used up even if the gates reject it
			}
		}

		if !ok || !e.accept(cand) {
			continue
		}

		span := locate(text, line.Raw, consumed, cand.term, cursor)
		span.SourceID = fallbackSourceID
		cursor = span.Start + cursorAdvance

		facts = append(facts, model.Fact{
			ID:         e.newID(),
			Term:       cand.term,
			Definition: cand.def,
			Span:       span,
			Pattern:    cand.pattern,
		})
	}

	return facts
}

// accept applies the gates. Terms phrased as questions are rejected too, so a
// "What is water?" heading never becomes a fact.
func (e *FactExtractor) accept(c candidate) bool {
	return !validate.IsInterrogative(c.term) &&
		!validate.IsGibberish(c.term) &&
		!validate.IsGibberish(c.def) &&
		!e.gate.IsInvalidContent(c.def)
}

// matchSeparator handles "Term: Definition", "Term - Definition" and friends
func (e *FactExtractor) matchSeparator(clean string) (candidate, bool) {
	for _, sep := range e.separators {
		idx := strings.Index(clean, sep)
		if idx < 0 {
			continue
		}
		pos := utf8.RuneCountInString(clean[:idx])
		if pos <= 1 || pos >= separatorWindow {
			continue
		}

		term := strings.TrimSpace(clean[:idx])
		def := strings.TrimSpace(clean[idx+len(sep):])
		if runeLen(term) >= minTermLen && runeLen(def) >= minSeparatorDefLen {
			return candidate{term: term, def: def, pattern: model.PatternSeparator}, true
		}
	}
	return candidate{}, false
}

// matchSentence handles "Term. Definition sentence" where Term is a single token
func matchSentence(clean string) (candidate, bool) {
	idx := strings.Index(clean, ". ")
	if idx < 0 {
		return candidate{}, false
	}
	pos := utf8.RuneCountInString(clean[:idx])
	if pos <= 2 || pos >= sentenceWindow {
		return candidate{}, false
	}

	term := strings.TrimSpace(clean[:idx])
	def := strings.TrimSpace(clean[idx+2:])
	if runeLen(term) < minTermLen || runeLen(def) < minSentenceDefLen || strings.Contains(term, " ") {
		return candidate{}, false
	}
	return candidate{term: term, def: def, pattern: model.PatternSentence}, true
}

// matchHeading handles a short heading line followed by its explanation line
func (e *FactExtractor) matchHeading(line, next Line) (candidate, bool) {
	if next.Index != line.Index+1 {
		return candidate{}, false
	}
	if runeLen(line.Clean) >= maxHeadingLen || strings.HasSuffix(line.Clean, ".") {
		return candidate{}, false
	}
	if runeLen(next.Raw) <= minHeadingNextLen || e.startsWithBullet(next.Raw) {
		return candidate{}, false
	}
	return candidate{term: line.Clean, def: next.Raw, pattern: model.PatternHeading}, true
}

func (e *FactExtractor) startsWithBullet(s string) bool {
	for _, b := range e.bullets {
		if b != "" && strings.HasPrefix(s, b) {
			return true
		}
	}
	return false
}

// locate finds the provenance span of a fact. The raw line is searched from
// cursor onwards so repeated lines map to successive occurrences; if it is
// not found the first occurrence of the term is used instead.
func locate(text, raw, consumed, term string, cursor int) model.Span {
	if cursor > len(text) {
		cursor = len(text)
	}

	start := 0
	if pos := strings.Index(text[cursor:], raw); pos >= 0 {
		start = cursor + pos
	} else if pos := strings.Index(text, term); pos >= 0 {
		start = pos
	}

	end := start + len(raw)
	if consumed != "" {
		from := min(end, len(text))
		if pos := strings.Index(text[from:], consumed); pos >= 0 {
			end = from + pos + len(consumed)
		} else {
			end += len(consumed)
		}
	}

	return model.Span{Start: start, End: min(end, len(text))}
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
