package adapters

import (
	"regexp"
	"strings"
)

var (
	mdHeading    = regexp.MustCompile(`^\s{0,3}#{1,6}\s+`)
	mdClosingTag = regexp.MustCompile(`\s+#+\s*$`)
	mdQuote      = regexp.MustCompile(`^\s{0,3}(>\s?)+`)
	mdFence      = regexp.MustCompile("^\\s{0,3}(```|~~~)")
	mdLink       = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	mdStrong     = regexp.MustCompile(`(\*\*|__)(\S(?:.*?\S)?)(\*\*|__)`)
	mdEmphasis   = regexp.MustCompile(`(^|[\s(])[*_](\S(?:[^*_]*?\S)?)[*_]([\s).,;:!?]|$)`)
)

// MarkdownAdapter strips Markdown syntax so "**Term**: definition" reads as a
// plain note line. List markers are kept; the line normalizer handles them.
type MarkdownAdapter struct {
	BaseAdapter
}

// NewMarkdownAdapter creates a new Markdown adapter
func NewMarkdownAdapter() *MarkdownAdapter {
	return &MarkdownAdapter{}
}

// Name returns the adapter name
func (a *MarkdownAdapter) Name() string {
	return "markdown"
}

// CanHandle accepts .md files and text/markdown content
func (a *MarkdownAdapter) CanHandle(path string, contentType string) bool {
	return a.HasExtension(path, ".md", ".markdown") || a.HasContentType(contentType, "text/markdown")
}

// Text removes heading hashes, block quotes, fence lines, links and emphasis
func (a *MarkdownAdapter) Text(raw []byte) (string, error) {
	text, err := a.DecodeText(raw)
	if err != nil {
		return "", err
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if mdFence.MatchString(line) {
			continue
		}
		out = append(out, a.stripInline(line))
	}

	return tidyLines(strings.Join(out, "\n")), nil
}

func (a *MarkdownAdapter) stripInline(line string) string {
	if mdHeading.MatchString(line) {
		line = mdHeading.ReplaceAllString(line, "")
		line = mdClosingTag.ReplaceAllString(line, "")
	}
	line = mdQuote.ReplaceAllString(line, "")
	line = mdLink.ReplaceAllString(line, "$1")
	line = mdStrong.ReplaceAllString(line, "$2")
	line = mdEmphasis.ReplaceAllString(line, "$1$2$3")
	return strings.ReplaceAll(line, "`", "")
}
