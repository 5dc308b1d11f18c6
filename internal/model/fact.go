package model

// Fact is a term/definition pair recovered from note text
type Fact struct {
	ID         string `json:"id"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Span       Span   `json:"span"` // Where in the note text the fact came from

	Pattern FactPattern `json:"pattern,omitempty"` // Which extraction rule matched
}

// Span is a provenance range into the note text.
// Start and End are byte offsets; End is exclusive and never exceeds the text length.
type Span struct {
	SourceID string `json:"source_id"` // Which source chunk (image, file) the text came from
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// Slice returns the span's text, clamped to the bounds of text
func (s Span) Slice(text string) string {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start >= end {
		return ""
	}
	return text[start:end]
}

// FactPattern names the extraction rule that recovered a fact
type FactPattern string

const (
	PatternSeparator FactPattern = "separator" // "Term: Definition"
	PatternSentence  FactPattern = "sentence"  // "Term. Definition"
	PatternHeading   FactPattern = "heading"   // heading line followed by explanation line
)
