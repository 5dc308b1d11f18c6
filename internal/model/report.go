package model

import "time"

// Report is the complete result of turning one note into a quiz
type Report struct {
	Subject     string      `json:"subject"`              // Human-readable title (file name or --subject)
	SourcePath  string      `json:"source_path,omitempty"` // File the note was read from ("-" for stdin)
	SourceID    string      `json:"source_id"`            // Fallback source id stamped on spans
	Adapter     string      `json:"adapter"`              // Input adapter that produced Text
	GeneratedAt time.Time   `json:"generated_at"`
	Status      ThemeStatus `json:"status"`
	// ErrorMessage is the corrective message shown when Status is "error"
	ErrorMessage string `json:"error_message,omitempty"`

	Text string `json:"text"` // Note text all spans point into

	Facts     []Fact        `json:"facts"`
	Questions []Question    `json:"questions"`
	Evidence  []EvidenceRef `json:"evidence"`

	Score      Score      `json:"score"`
	Principles Principles `json:"principles"`

	Review *Review `json:"review,omitempty"` // Optional LLM review (separate, never changes questions)
}

// EvidenceRef is the note excerpt shown under a question
type EvidenceRef struct {
	QuestionID string `json:"question_id"`
	Snippet    string `json:"snippet"`
}

// Abstained reports whether the quiz was withheld for lack of material
func (r *Report) Abstained() bool {
	return len(r.Questions) == 0
}

// Score is the transparent readiness breakdown for a note
type Score struct {
	Index      int      `json:"index"`      // Readiness index (0-100)
	Confidence string   `json:"confidence"` // "low", "medium", "high"
	Signals    []Signal `json:"signals"`
}

// Signal is a diagnostic with its scoring data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalFactYield       SignalType = "fact_yield"       // Facts recovered per note line
	SignalQuestionYield   SignalType = "question_yield"   // Questions built per candidate fact
	SignalDistractorMix   SignalType = "distractor_mix"   // Real vs synthesized distractors
	SignalAbstention      SignalType = "abstention"       // Quiz withheld
	SignalRepeatedOptions SignalType = "repeated_options" // Same distractor reused across questions
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// Principles documents the guarantees the report was produced under
type Principles struct {
	Grounded   bool `json:"grounded"`   // Every correct answer is an extracted definition
	Abstaining bool `json:"abstaining"` // Too little material yields no quiz, not a partial one
	Traceable  bool `json:"traceable"`  // Every question carries a span into the note text
}

// DefaultPrinciples returns the guarantees every report is produced under
func DefaultPrinciples() Principles {
	return Principles{
		Grounded:   true,
		Abstaining: true,
		Traceable:  true,
	}
}

// Review holds the optional LLM evidence review.
// It annotates questions and never adds, removes or edits them.
type Review struct {
	Enabled        bool      `json:"enabled"`
	Provider       string    `json:"provider,omitempty"`
	Model          string    `json:"model,omitempty"`
	StrictEvidence bool      `json:"strict_evidence"`
	Verdicts       []Verdict `json:"verdicts,omitempty"`
	Warnings       []string  `json:"warnings,omitempty"`
}

// Verdict is the reviewer's judgement for one question
type Verdict struct {
	QuestionID string `json:"question_id"`
	Supported  bool   `json:"supported"`
	Quote      string `json:"quote,omitempty"` // Evidence excerpt the reviewer relied on
	Cached     bool   `json:"cached,omitempty"`
}

// Unsupported counts verdicts that flagged a question
func (r *Review) Unsupported() int {
	n := 0
	for _, v := range r.Verdicts {
		if !v.Supported {
			n++
		}
	}
	return n
}
