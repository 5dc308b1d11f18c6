package model

// Question is a grounded multiple-choice question built from one Fact
type Question struct {
	ID            string       `json:"id"`
	SourceThemeID string       `json:"source_theme_id"`
	Kind          QuestionKind `json:"kind"`
	Stem          string       `json:"stem"`
	Options       []string     `json:"options"`       // Always 4, pairwise distinct
	CorrectIndex  int          `json:"correct_index"` // 0-based
	Explanation   string       `json:"explanation"`
	SourceRefs    []Span       `json:"source_refs"` // Never empty
	FactID        string       `json:"fact_id"`
}

// QuestionKind classifies how the question was built
type QuestionKind string

const (
	KindDefinition QuestionKind = "definition" // "What is <term>?" answered by its definition
)

// OptionsPerQuestion is the fixed number of options in every question
const OptionsPerQuestion = 4

// CorrectOption returns the option at CorrectIndex, or "" when the index is out of range
func (q Question) CorrectOption() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// ThemeStatus mirrors the lifecycle a caller keeps for a set of notes
type ThemeStatus string

const (
	ThemeEmpty      ThemeStatus = "empty"
	ThemeProcessing ThemeStatus = "processing"
	ThemeReady      ThemeStatus = "ready" // Questions were produced
	ThemeError      ThemeStatus = "error" // Abstained: not enough material in the notes
)
