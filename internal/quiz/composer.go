// Package quiz composes multiple-choice questions from extracted facts and
// abstains when the notes do not carry enough material.
package quiz

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ppiankov/notequiz/internal/distractor"
	"github.com/ppiankov/notequiz/internal/extract"
	"github.com/ppiankov/notequiz/internal/lexicon"
	"github.com/ppiankov/notequiz/internal/model"
	"github.com/ppiankov/notequiz/internal/validate"
)

const (
	// DefaultThemeID is the theme id used by GenerateQuestions
	DefaultThemeID = "theme"

	// MinFacts and MinQuestions are the abstention thresholds
	MinFacts     = 4
	MinQuestions = 4

	distractorsPerQuestion = model.OptionsPerQuestion - 1
)

// Outcome is everything one composition run produced, including the counts
// the readiness score is built from
type Outcome struct {
	Facts      []model.Fact
	Candidates int // Facts drawn from the shuffled pool
	Questions  []model.Question
	Skipped    int // Candidates that could not become a question

	// Distractor provenance across all built questions
	Real        int
	Paraphrased int
	Filler      int
}

// Abstained reports whether no quiz is offered
func (o Outcome) Abstained() bool {
	return len(o.Questions) == 0
}

// Composer turns note text into questions
type Composer struct {
	lex       *lexicon.Lexicon
	extractor *extract.FactExtractor
	synth     *distractor.Synthesizer
	gate      *validate.Gate
	shuffle   Shuffler
	newID     func() string
}

// NewComposer creates a composer for the given lexicon (nil means default).
// A nil shuffler means DefaultShuffler.
func NewComposer(lex *lexicon.Lexicon, shuffle Shuffler) *Composer {
	if lex == nil {
		lex = lexicon.Default()
	}
	if shuffle == nil {
		shuffle = DefaultShuffler()
	}
	return &Composer{
		lex:       lex,
		extractor: extract.NewFactExtractor(lex),
		synth:     distractor.NewSynthesizer(lex),
		gate:      validate.NewGate(lex),
		shuffle:   shuffle,
		newID:     uuid.NewString,
	}
}

var defaultComposer = NewComposer(nil, nil)

// GenerateQuestions builds up to count questions with the default lexicon.
// An empty result means the notes were not good enough for a quiz.
func GenerateQuestions(noteText string, count int) []model.Question {
	return defaultComposer.Generate(DefaultThemeID, noteText, count)
}

// Generate builds up to count questions for a theme; empty means abstain
func (c *Composer) Generate(themeID, noteText string, count int) []model.Question {
	return c.Compose(themeID, noteText, count).Questions
}

// Compose extracts facts from noteText and builds up to count questions.
// Spans carry themeID as their source id.
func (c *Composer) Compose(themeID, noteText string, count int) Outcome {
	var out Outcome
	if strings.TrimSpace(noteText) == "" {
		return out
	}

	out.Facts = c.extractor.Extract(noteText, themeID)
	if len(out.Facts) < MinFacts || count <= 0 {
		return out
	}

	pool := append([]model.Fact(nil), out.Facts...)
	c.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	picked := pool[:min(count, len(pool))]
	out.Candidates = len(picked)

	var questions []model.Question
	for _, fact := range picked {
		q, res, ok := c.compose(themeID, fact, out.Facts)
		if !ok {
			out.Skipped++
			continue
		}
		questions = append(questions, q)
		out.Real += res.Real
		out.Paraphrased += res.Paraphrased
		out.Filler += res.Filler
	}

	if len(questions) < MinQuestions {
		return out
	}
	out.Questions = questions
	return out
}

// compose builds the question for one fact, distractors drawn from the other
// facts in extraction order
func (c *Composer) compose(themeID string, fact model.Fact, facts []model.Fact) (model.Question, distractor.Result, bool) {
	if !c.gate.IsValidOption(fact.Definition) {
		return model.Question{}, distractor.Result{}, false
	}

	pool := make([]string, 0, len(facts)-1)
	for _, other := range facts {
		if other.ID != fact.ID {
			pool = append(pool, other.Definition)
		}
	}

	res := c.synth.Synthesize(fact.Definition, distractorsPerQuestion, pool)
	if res.Short(distractorsPerQuestion) {
		return model.Question{}, res, false
	}

	options := make([]string, 0, model.OptionsPerQuestion)
	options = append(options, fact.Definition)
	options = append(options, res.Options...)
	c.shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	correct := -1
	for i, opt := range options {
		if opt == fact.Definition {
			correct = i
			break
		}
	}
	if correct < 0 {
		return model.Question{}, res, false
	}

	return model.Question{
		ID:            c.newID(),
		SourceThemeID: themeID,
		Kind:          model.KindDefinition,
		Stem:          c.lex.Stem(fact.Term),
		Options:       options,
		CorrectIndex:  correct,
		Explanation:   c.lex.Explanation,
		SourceRefs:    []model.Span{fact.Span},
		FactID:        fact.ID,
	}, res, true
}

// AbstainMessage is the corrective message shown when no quiz is offered
func (c *Composer) AbstainMessage() string {
	if c.lex.AbstainMessage != "" {
		return c.lex.AbstainMessage
	}
	return fmt.Sprintf("not enough material: need at least %d facts and %d questions", MinFacts, MinQuestions)
}
