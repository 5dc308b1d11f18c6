package score

import (
	"fmt"
	"math"
	"sort"

	"github.com/ppiankov/notequiz/internal/model"
)

// Input is what the scorer looks at for one note
type Input struct {
	Lines      int // Non-empty note lines
	Facts      []model.Fact
	Candidates int // Facts drawn for question building
	Questions  []model.Question

	// Distractor provenance across all questions
	Real        int
	Paraphrased int
	Filler      int
}

const (
	minFacts        = 4
	repeatedPenalty = 10
)

// Scorer calculates the readiness index and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate calculates the readiness score and generates diagnostic signals
func (s *Scorer) Calculate(in Input) model.Score {
	var signals []model.Signal

	if len(in.Questions) == 0 {
		signals = append(signals, s.abstention(in))
	}

	// 1. Fact yield (0-30 points)
	factScore, factSignal := s.calculateFactYield(in)
	signals = append(signals, factSignal)

	// 2. Question yield (0-40 points)
	questionScore, questionSignal := s.calculateQuestionYield(in)
	signals = append(signals, questionSignal)

	// 3. Distractor mix (0-30 points)
	mixScore, mixSignal := s.calculateDistractorMix(in)
	signals = append(signals, mixSignal)

	// 4. Synthesized options reused across questions (penalty)
	repeated, repeatedSignal := s.detectRepeatedOptions(in)
	if repeated {
		signals = append(signals, repeatedSignal)
	}

	totalScore := factScore + questionScore + mixScore
	if repeated {
		totalScore = max(0, totalScore-repeatedPenalty)
	}
	if len(in.Questions) == 0 {
		totalScore = 0
	}

	return model.Score{
		Index:      totalScore,
		Confidence: s.determineConfidence(totalScore, in),
		Signals:    signals,
	}
}

func (s *Scorer) abstention(in Input) model.Signal {
	reason := fmt.Sprintf("Only %d facts found (need at least %d)", len(in.Facts), minFacts)
	if len(in.Facts) >= minFacts {
		reason = "Too few facts could be turned into questions with three distinct options"
	}
	return model.Signal{
		Type:        model.SignalAbstention,
		Severity:    model.SeverityCritical,
		Description: "Quiz withheld: " + reason,
		Data: map[string]interface{}{
			"facts":      len(in.Facts),
			"candidates": in.Candidates,
		},
	}
}

// calculateFactYield scores how much of the note reads as term/definition pairs (0-30 points)
func (s *Scorer) calculateFactYield(in Input) (int, model.Signal) {
	factCount := len(in.Facts)

	if in.Lines == 0 || factCount == 0 {
		return 0, model.Signal{
			Type:        model.SignalFactYield,
			Severity:    model.SeverityCritical,
			Description: "No facts extracted",
			Data: map[string]interface{}{
				"lines": in.Lines,
				"facts": 0,
			},
		}
	}

	ratio := float64(factCount) / float64(in.Lines)
	score := int(math.Min(ratio*60, 30))

	severity := model.SeverityInfo
	if factCount < minFacts {
		severity = model.SeverityCritical
	} else if ratio < 0.25 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalFactYield,
		Severity:    severity,
		Description: fmt.Sprintf("%d facts from %d lines (%.0f%%)", factCount, in.Lines, ratio*100),
		Data: map[string]interface{}{
			"lines":   in.Lines,
			"facts":   factCount,
			"ratio":   ratio,
			"score":   score,
			"formula": "min(facts / lines * 60, 30)",
		},
	}
}

// calculateQuestionYield scores how many drawn facts became questions (0-40 points)
func (s *Scorer) calculateQuestionYield(in Input) (int, model.Signal) {
	questionCount := len(in.Questions)

	if in.Candidates == 0 {
		return 0, model.Signal{
			Type:        model.SignalQuestionYield,
			Severity:    model.SeverityCritical,
			Description: "No facts were drawn for questions",
			Data:        map[string]interface{}{"candidates": 0},
		}
	}

	ratio := float64(questionCount) / float64(in.Candidates)
	score := int(ratio * 40)

	severity := model.SeverityInfo
	if questionCount == 0 {
		severity = model.SeverityCritical
	} else if ratio < 0.75 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalQuestionYield,
		Severity:    severity,
		Description: fmt.Sprintf("Questions: %d/%d candidate facts", questionCount, in.Candidates),
		Data: map[string]interface{}{
			"candidates": in.Candidates,
			"questions":  questionCount,
			"skipped":    in.Candidates - questionCount,
			"ratio":      ratio,
			"score":      score,
			"formula":    "(questions / candidates) * 40",
		},
	}
}

// calculateDistractorMix rewards distractors taken from the notes over
// synthesized ones (0-30 points)
func (s *Scorer) calculateDistractorMix(in Input) (int, model.Signal) {
	total := in.Real + in.Paraphrased + in.Filler
	if total == 0 {
		return 0, model.Signal{
			Type:        model.SignalDistractorMix,
			Severity:    model.SeverityWarning,
			Description: "No distractors built",
			Data:        map[string]interface{}{"distractors": 0},
		}
	}

	score := (in.Real*3 + in.Paraphrased*1) * 30 / (total * 3)

	severity := model.SeverityInfo
	if in.Filler > 0 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:     model.SignalDistractorMix,
		Severity: severity,
		Description: fmt.Sprintf("Distractors: %d from notes, %d paraphrased, %d generic",
			in.Real, in.Paraphrased, in.Filler),
		Data: map[string]interface{}{
			"real":        in.Real,
			"paraphrased": in.Paraphrased,
			"filler":      in.Filler,
			"total":       total,
			"score":       score,
			"formula":     "(real*3 + paraphrased*1) / (total*3) * 30",
		},
	}
}

// detectRepeatedOptions finds synthesized options (not a definition from the
// notes) that appear in more than one question
func (s *Scorer) detectRepeatedOptions(in Input) (bool, model.Signal) {
	definitions := make(map[string]bool, len(in.Facts))
	for _, f := range in.Facts {
		definitions[f.Definition] = true
	}

	uses := make(map[string]int)
	for _, q := range in.Questions {
		for i, opt := range q.Options {
			if i != q.CorrectIndex && !definitions[opt] {
				uses[opt]++
			}
		}
	}

	var repeated []string
	for opt, n := range uses {
		if n > 1 {
			repeated = append(repeated, opt)
		}
	}
	if len(repeated) == 0 {
		return false, model.Signal{}
	}
	sort.Strings(repeated)

	return true, model.Signal{
		Type:        model.SignalRepeatedOptions,
		Severity:    model.SeverityWarning,
		Description: fmt.Sprintf("%d generic options reused across questions", len(repeated)),
		Data: map[string]interface{}{
			"options": repeated,
			"penalty": repeatedPenalty,
		},
	}
}

// determineConfidence determines the confidence level based on the score
func (s *Scorer) determineConfidence(score int, in Input) string {
	if len(in.Questions) == 0 || len(in.Facts) < minFacts {
		return "low"
	}

	if score >= 80 {
		return "high"
	} else if score >= 60 {
		return "medium"
	} else {
		return "low"
	}
}
