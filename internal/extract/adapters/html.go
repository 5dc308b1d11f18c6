package adapters

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// HTMLAdapter extracts the visible text of saved note pages
type HTMLAdapter struct {
	BaseAdapter
	blockElements map[string]bool
	skipElements  map[string]bool
}

// NewHTMLAdapter creates a new HTML adapter
func NewHTMLAdapter() *HTMLAdapter {
	return &HTMLAdapter{
		blockElements: map[string]bool{
			"address": true, "article": true, "aside": true, "blockquote": true,
			"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true,
			"figcaption": true, "figure": true, "footer": true, "form": true,
			"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
			"header": true, "hr": true, "li": true, "main": true, "nav": true,
			"ol": true, "p": true, "pre": true, "section": true, "table": true,
			"tr": true, "ul": true,
		},
		skipElements: map[string]bool{
			"head": true, "script": true, "style": true, "noscript": true,
			"template": true, "svg": true, "iframe": true,
		},
	}
}

// Name returns the adapter name
func (a *HTMLAdapter) Name() string {
	return "html"
}

// CanHandle accepts .html/.htm files and text/html content
func (a *HTMLAdapter) CanHandle(path string, contentType string) bool {
	return a.HasExtension(path, ".html", ".htm") ||
		a.HasContentType(contentType, "text/html", "application/xhtml+xml")
}

// Text renders block elements as separate lines and list items as "- " bullets
func (a *HTMLAdapter) Text(raw []byte) (string, error) {
	content, err := a.DecodeText(raw)
	if err != nil {
		return "", err
	}

	doc, err := a.ParseHTML(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Focus on main content areas
	root := a.FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "main"
	})
	if root == nil {
		root = a.FindFirst(doc, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "body"
		})
	}
	if root == nil {
		root = doc
	}

	var buf textBuffer
	a.render(&buf, root)
	return tidyLines(buf.String()), nil
}

// textBuffer remembers whether the last thing written closed a heading, so
// the block after it lands on the very next line
type textBuffer struct {
	strings.Builder
	afterHeading bool
}

func (b *textBuffer) text(s string) {
	b.WriteString(s)
	b.afterHeading = false
}

// newline starts a block line; none is added directly after a heading
func (b *textBuffer) newline() {
	if !b.afterHeading {
		b.WriteString("\n")
	}
}

func isHeading(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

func (a *HTMLAdapter) render(buf *textBuffer, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		// Source whitespace, newlines included, is not significant in HTML
		text := strings.Join(strings.Fields(n.Data), " ")
		if text == "" {
			writeSpace(buf)
			return
		}
		if strings.TrimLeft(n.Data, " \t\r\n") != n.Data {
			writeSpace(buf)
		}
		buf.text(text)
		if strings.TrimRight(n.Data, " \t\r\n") != n.Data {
			writeSpace(buf)
		}
		return
	case html.ElementNode:
		if a.skipElements[n.Data] || a.hidden(n) {
			return
		}
		if n.Data == "br" {
			buf.text("\n")
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	block := n.Type == html.ElementNode && a.blockElements[n.Data]
	if block {
		buf.newline()
		if n.Data == "li" {
			buf.text("- ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		a.render(buf, c)
	}
	if block {
		buf.newline()
		if isHeading(n.Data) {
			buf.afterHeading = true
		}
	}
}

func (a *HTMLAdapter) hidden(n *html.Node) bool {
	return a.HasAttribute(n, "hidden") || a.GetAttribute(n, "aria-hidden") == "true"
}

// writeSpace adds one space unless the output is empty or ends in whitespace
func writeSpace(buf *textBuffer) {
	s := buf.String()
	if s == "" || strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n") {
		return
	}
	buf.WriteString(" ")
}
