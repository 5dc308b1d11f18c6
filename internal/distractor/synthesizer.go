// Package distractor supplies the wrong options of a question. Real
// distractors are other facts' definitions; when there are not enough of them
// the correct definition is paraphrased, and generic filler sentences are the
// last resort. Every option passes the option validity gate.
package distractor

import (
	"github.com/ppiankov/notequiz/internal/lexicon"
	"github.com/ppiankov/notequiz/internal/validate"
)

// Result holds the synthesized distractors and where they came from
type Result struct {
	Options     []string
	Real        int // Definitions of other facts
	Paraphrased int // Negation, word-swap and temporal variants
	Filler      int // Generic filler sentences
}

// Short reports whether fewer than count distractors were found
func (r Result) Short(count int) bool {
	return len(r.Options) < count
}

// Synthesizer picks distractors for one correct definition at a time
type Synthesizer struct {
	gate       *validate.Gate
	paraphrase *Paraphraser
	fillers    []string
}

// NewSynthesizer creates a synthesizer for the given lexicon (nil means default)
func NewSynthesizer(lex *lexicon.Lexicon) *Synthesizer {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Synthesizer{
		gate:       validate.NewGate(lex),
		paraphrase: NewParaphraser(lex),
		fillers:    append([]string(nil), lex.Fillers...),
	}
}

// Synthesize returns up to count distractors for correct. Pool entries are
// taken first, in pool order. Paraphrases are only tried when the pool runs
// short: negation, middle word swap, temporal variants, then fillers.
func (s *Synthesizer) Synthesize(correct string, count int, pool []string) Result {
	var res Result
	if count <= 0 {
		return res
	}

	chosen := make(map[string]bool, count)
	add := func(candidate string) bool {
		if len(res.Options) >= count || candidate == correct || chosen[candidate] {
			return false
		}
		if !s.gate.IsValidOption(candidate) {
			return false
		}
		chosen[candidate] = true
		res.Options = append(res.Options, candidate)
		return true
	}

	for _, def := range pool {
		if add(def) {
			res.Real++
		}
	}
	if !res.Short(count) {
		return res
	}

	if negated, ok := s.paraphrase.Negate(correct); ok && add(negated) {
		res.Paraphrased++
	}
	if swapped, ok := s.paraphrase.SwapMiddle(correct); ok && add(swapped) {
		res.Paraphrased++
	}
	for _, variant := range s.paraphrase.TemporalVariants(correct) {
		if add(variant) {
			res.Paraphrased++
		}
	}

	for _, filler := range s.fillers {
		if add(filler) {
			res.Filler++
		}
	}

	return res
}
