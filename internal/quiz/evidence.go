package quiz

import (
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/notequiz/internal/model"
)

// snippetContext is the number of bytes shown on each side of a span
const snippetContext = 40

// EvidenceSnippet returns the note text around [start, end) with 40 bytes of
// context on each side, widened to rune boundaries and whitespace-collapsed.
func EvidenceSnippet(text string, start, end int) string {
	from := max(0, start-snippetContext)
	to := min(len(text), end+snippetContext)
	if from >= to {
		return ""
	}

	for from > 0 && !utf8.RuneStart(text[from]) {
		from--
	}
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}

	return strings.Join(strings.Fields(text[from:to]), " ")
}

// Evidence builds one snippet per question from its first source span
func Evidence(text string, questions []model.Question) []model.EvidenceRef {
	refs := make([]model.EvidenceRef, 0, len(questions))
	for _, q := range questions {
		if len(q.SourceRefs) == 0 {
			continue
		}
		span := q.SourceRefs[0]
		refs = append(refs, model.EvidenceRef{
			QuestionID: q.ID,
			Snippet:    EvidenceSnippet(text, span.Start, span.End),
		})
	}
	return refs
}
