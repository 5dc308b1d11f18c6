package score

import (
	"fmt"
	"testing"

	"github.com/ppiankov/notequiz/internal/model"
)

func makeFacts(n int) []model.Fact {
	facts := make([]model.Fact, n)
	for i := range facts {
		facts[i] = model.Fact{
			ID:         fmt.Sprintf("f-%d", i),
			Term:       fmt.Sprintf("Term%d", i),
			Definition: fmt.Sprintf("Definition number %d with enough words", i),
		}
	}
	return facts
}

func makeQuestions(facts []model.Fact, extra ...string) []model.Question {
	questions := make([]model.Question, len(facts))
	for i, f := range facts {
		options := []string{f.Definition}
		for j := 1; len(options) < 4; j++ {
			if len(extra) > 0 && len(options) == 3 {
				options = append(options, extra[0])
				continue
			}
			options = append(options, facts[(i+j)%len(facts)].Definition)
		}
		questions[i] = model.Question{ID: fmt.Sprintf("q-%d", i), Options: options, CorrectIndex: 0}
	}
	return questions
}

func findSignal(signals []model.Signal, typ model.SignalType) *model.Signal {
	for i := range signals {
		if signals[i].Type == typ {
			return &signals[i]
		}
	}
	return nil
}

func TestScorer_Calculate_WellFormedNotes(t *testing.T) {
	scorer := NewScorer()
	facts := makeFacts(5)

	result := scorer.Calculate(Input{
		Lines:      5,
		Facts:      facts,
		Candidates: 5,
		Questions:  makeQuestions(facts),
		Real:       15,
	})

	// 30 (fact yield) + 40 (question yield) + 30 (all real distractors)
	if result.Index != 100 {
		t.Errorf("Expected index 100, got %d", result.Index)
	}
	if result.Confidence != "high" {
		t.Errorf("Expected high confidence, got %s", result.Confidence)
	}
	if findSignal(result.Signals, model.SignalAbstention) != nil {
		t.Error("Expected no abstention signal")
	}
	if findSignal(result.Signals, model.SignalRepeatedOptions) != nil {
		t.Error("Expected no repeated options signal")
	}
}

func TestScorer_Calculate_Abstention(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(Input{
		Lines: 10,
		Facts: makeFacts(3),
	})

	if result.Index != 0 {
		t.Errorf("Expected index 0 on abstention, got %d", result.Index)
	}
	if result.Confidence != "low" {
		t.Errorf("Expected low confidence, got %s", result.Confidence)
	}

	signal := findSignal(result.Signals, model.SignalAbstention)
	if signal == nil {
		t.Fatal("Expected abstention signal")
	}
	if signal.Severity != model.SeverityCritical {
		t.Errorf("Expected critical severity, got %s", signal.Severity)
	}

	factSignal := findSignal(result.Signals, model.SignalFactYield)
	if factSignal == nil || factSignal.Severity != model.SeverityCritical {
		t.Errorf("Expected critical fact yield signal with 3 facts, got %+v", factSignal)
	}
}

func TestScorer_Calculate_AbstentionWithEnoughFacts(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(Input{Lines: 4, Facts: makeFacts(4), Candidates: 4})

	signal := findSignal(result.Signals, model.SignalAbstention)
	if signal == nil {
		t.Fatal("Expected abstention signal")
	}
	if signal.Description != "Quiz withheld: Too few facts could be turned into questions with three distinct options" {
		t.Errorf("Unexpected description: %s", signal.Description)
	}
}

func TestScorer_FactYield(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		lines, facts int
		wantScore    int
		wantSeverity model.SignalSeverity
	}{
		{0, 0, 0, model.SeverityCritical},
		{10, 5, 30, model.SeverityInfo},
		{10, 4, 24, model.SeverityInfo},
		{40, 5, 7, model.SeverityWarning},
		{10, 2, 12, model.SeverityCritical},
	}

	for _, tt := range tests {
		score, signal := scorer.calculateFactYield(Input{Lines: tt.lines, Facts: makeFacts(tt.facts)})
		if score != tt.wantScore {
			t.Errorf("lines=%d facts=%d: expected score %d, got %d", tt.lines, tt.facts, tt.wantScore, score)
		}
		if signal.Severity != tt.wantSeverity {
			t.Errorf("lines=%d facts=%d: expected severity %s, got %s", tt.lines, tt.facts, tt.wantSeverity, signal.Severity)
		}
	}
}

func TestScorer_QuestionYield(t *testing.T) {
	scorer := NewScorer()
	facts := makeFacts(8)

	score, signal := scorer.calculateQuestionYield(Input{Candidates: 8, Questions: makeQuestions(facts[:4])})
	if score != 20 {
		t.Errorf("Expected score 20, got %d", score)
	}
	if signal.Severity != model.SeverityWarning {
		t.Errorf("Expected warning for half the candidates skipped, got %s", signal.Severity)
	}
	if signal.Data["skipped"] != 4 {
		t.Errorf("Expected 4 skipped, got %v", signal.Data["skipped"])
	}
}

func TestScorer_DistractorMix(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		name               string
		real, para, filler int
		wantScore          int
		wantSeverity       model.SignalSeverity
	}{
		{"none", 0, 0, 0, 0, model.SeverityWarning},
		{"all real", 12, 0, 0, 30, model.SeverityInfo},
		{"all paraphrased", 0, 12, 0, 10, model.SeverityInfo},
		{"fillers", 6, 3, 3, 17, model.SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, signal := scorer.calculateDistractorMix(Input{Real: tt.real, Paraphrased: tt.para, Filler: tt.filler})
			if score != tt.wantScore {
				t.Errorf("Expected score %d, got %d", tt.wantScore, score)
			}
			if signal.Severity != tt.wantSeverity {
				t.Errorf("Expected severity %s, got %s", tt.wantSeverity, signal.Severity)
			}
		})
	}
}

func TestScorer_RepeatedOptionsPenalty(t *testing.T) {
	scorer := NewScorer()
	facts := makeFacts(4)
	filler := "A generic sentence that is not in the notes"

	result := scorer.Calculate(Input{
		Lines:      4,
		Facts:      facts,
		Candidates: 4,
		Questions:  makeQuestions(facts, filler),
		Real:       8,
		Filler:     4,
	})

	signal := findSignal(result.Signals, model.SignalRepeatedOptions)
	if signal == nil {
		t.Fatal("Expected repeated options signal")
	}
	options, ok := signal.Data["options"].([]string)
	if !ok || len(options) != 1 || options[0] != filler {
		t.Errorf("Expected the filler to be reported, got %v", signal.Data["options"])
	}

	// 30 + 40 + (8*3)/(12*3)*30 = 20, minus 10
	if result.Index != 80 {
		t.Errorf("Expected index 80, got %d", result.Index)
	}
}

func TestScorer_IndexBounds(t *testing.T) {
	scorer := NewScorer()
	facts := makeFacts(6)

	for lines := 1; lines <= 30; lines += 7 {
		result := scorer.Calculate(Input{
			Lines:       lines,
			Facts:       facts,
			Candidates:  6,
			Questions:   makeQuestions(facts[:5]),
			Paraphrased: 10,
			Filler:      5,
		})
		if result.Index < 0 || result.Index > 100 {
			t.Errorf("Expected index between 0 and 100, got %d", result.Index)
		}
	}
}
