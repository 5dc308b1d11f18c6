package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ppiankov/notequiz/internal/model"
)

// StdoutPath is the output path that means "write to standard output"
const StdoutPath = "-"

// Renderer writes reports as JSON, Markdown and terminal summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return r.WriteJSON(w, report)
	})
}

// WriteJSON writes the report as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

// RenderMarkdown writes the report as Markdown to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return r.WriteMarkdown(w, report)
	})
}

// WriteMarkdown writes the printable quiz with answers, evidence and score
func (r *Renderer) WriteMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Quiz: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "**Status:** %s  \n", report.Status)
	fmt.Fprintf(&b, "**Readiness:** %d/100 (%s confidence)  \n", report.Score.Index, report.Score.Confidence)
	if report.SourcePath != "" {
		fmt.Fprintf(&b, "**Source:** `%s` (%s)  \n", report.SourcePath, report.Adapter)
	}
	fmt.Fprintf(&b, "**Facts found:** %d, **Questions:** %d\n\n", len(report.Facts), len(report.Questions))

	if report.Status == model.ThemeError {
		b.WriteString("## Not enough material\n\n")
		fmt.Fprintf(&b, "%s\n\n", report.ErrorMessage)
	} else {
		r.writeQuestions(&b, report)
	}

	if len(report.Facts) > 0 {
		b.WriteString("## Concepts found\n\n")
		b.WriteString("| # | Term | Definition |\n")
		b.WriteString("|---|------|------------|\n")
		for i, f := range report.Facts {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, escapeCell(f.Term), escapeCell(f.Definition))
		}
		b.WriteString("\n")
	}

	if len(report.Score.Signals) > 0 {
		b.WriteString("## Signals\n\n")
		for _, s := range report.Score.Signals {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", s.Type, s.Severity, s.Description)
		}
		b.WriteString("\n")
	}

	if report.Review != nil && report.Review.Enabled {
		r.writeReview(&b, report.Review)
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("*Every correct answer is copied from your notes. Check the evidence before you study from it.*\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) writeQuestions(b *strings.Builder, report *model.Report) {
	evidence := make(map[string]string, len(report.Evidence))
	for _, ref := range report.Evidence {
		evidence[ref.QuestionID] = ref.Snippet
	}

	b.WriteString("## Questions\n\n")
	for i, q := range report.Questions {
		fmt.Fprintf(b, "### %d. %s\n\n", i+1, q.Stem)
		for j, opt := range q.Options {
			mark := " "
			if j == q.CorrectIndex {
				mark = "x"
			}
			fmt.Fprintf(b, "- [%s] %c) %s\n", mark, 'A'+j, opt)
		}
		b.WriteString("\n")
		if q.Explanation != "" {
			fmt.Fprintf(b, "*%s*\n\n", q.Explanation)
		}
		if snippet := evidence[q.ID]; snippet != "" {
			fmt.Fprintf(b, "> %s\n\n", snippet)
		}
	}
}

func (r *Renderer) writeReview(b *strings.Builder, review *model.Review) {
	fmt.Fprintf(b, "## LLM review (%s/%s)\n\n", review.Provider, review.Model)
	if review.StrictEvidence {
		b.WriteString("Strict evidence: quotes outside the notes are rejected.\n\n")
	}
	for _, v := range review.Verdicts {
		verdict := "supported"
		if !v.Supported {
			verdict = "**not supported**"
		}
		fmt.Fprintf(b, "- `%s`: %s", v.QuestionID, verdict)
		if v.Quote != "" {
			fmt.Fprintf(b, " (\"%s\")", v.Quote)
		}
		b.WriteString("\n")
	}
	for _, warn := range review.Warnings {
		fmt.Fprintf(b, "- Warning: %s\n", warn)
	}
	b.WriteString("\n")
}

// WriteFacts prints extracted facts as an aligned table
func (r *Renderer) WriteFacts(w io.Writer, facts []model.Fact) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTERM\tPATTERN\tSPAN\tDEFINITION")
	for i, f := range facts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d-%d\t%s\n", i+1, f.Term, f.Pattern, f.Span.Start, f.Span.End, f.Definition)
	}
	return tw.Flush()
}

// WriteSummary prints a short human summary of the report
func (r *Renderer) WriteSummary(w io.Writer, report *model.Report) {
	fmt.Fprintf(w, "\n%s\n", report.Subject)
	fmt.Fprintf(w, "  Facts:      %d\n", len(report.Facts))
	fmt.Fprintf(w, "  Questions:  %d\n", len(report.Questions))
	fmt.Fprintf(w, "  Readiness:  %d/100 (%s confidence)\n", report.Score.Index, report.Score.Confidence)
	if report.Status == model.ThemeError {
		fmt.Fprintf(w, "  ✗ %s\n", report.ErrorMessage)
	}
	if report.Review != nil && report.Review.Enabled {
		fmt.Fprintf(w, "  Review:     %d verdicts, %d not supported, %d warnings\n",
			len(report.Review.Verdicts), report.Review.Unsupported(), len(report.Review.Warnings))
	}
	fmt.Fprintln(w)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if path == StdoutPath {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	return write(f)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
