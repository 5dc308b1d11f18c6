package adapters

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// ErrBinaryContent is returned when a note file is not text
var ErrBinaryContent = errors.New("content is not text")

// Adapter turns one kind of note file into plain note text
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can handle the given path/content type
	CanHandle(path string, contentType string) bool

	// Text converts the raw file content into note text, one note line per line
	Text(raw []byte) (string, error)
}

// Registry manages input adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a new adapter registry
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	// Register built-in adapters
	registry.Register(NewMarkdownAdapter())
	registry.Register(NewHTMLAdapter())

	// Plain text is the fallback
	registry.generic = NewTextAdapter()

	return registry
}

// Register registers a new adapter
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the best adapter for the given path and content type
func (r *Registry) FindAdapter(path string, contentType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(path, contentType) {
			return adapter
		}
	}

	return r.generic
}

// ByName returns the adapter registered under name
func (r *Registry) ByName(name string) (Adapter, error) {
	if r.generic.Name() == name {
		return r.generic, nil
	}
	for _, adapter := range r.adapters {
		if adapter.Name() == name {
			return adapter, nil
		}
	}
	return nil, fmt.Errorf("unknown adapter %q (available: %s)", name, strings.Join(r.Names(), ", "))
}

// Names lists the registered adapter names, fallback first
func (r *Registry) Names() []string {
	names := []string{r.generic.Name()}
	for _, adapter := range r.adapters {
		names = append(names, adapter.Name())
	}
	return names
}

// BaseAdapter provides common functionality for adapters
type BaseAdapter struct{}

// DecodeText checks that raw is text and strips a UTF-8 byte order mark.
// Invalid UTF-8 sequences are replaced with U+FFFD.
func (b *BaseAdapter) DecodeText(raw []byte) (string, error) {
	if bytes.IndexByte(raw, 0) >= 0 {
		return "", ErrBinaryContent
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	return strings.ToValidUTF8(string(raw), "�"), nil
}

// HasExtension checks the path's extension against exts (case-insensitive)
func (b *BaseAdapter) HasExtension(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// HasContentType checks the media type of contentType, ignoring parameters
func (b *BaseAdapter) HasContentType(contentType string, types ...string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	for _, t := range types {
		if mediaType == t {
			return true
		}
	}
	return false
}

// ParseHTML parses HTML string into a node tree
func (b *BaseAdapter) ParseHTML(htmlContent string) (*html.Node, error) {
	return html.Parse(strings.NewReader(htmlContent))
}

// GetAttribute gets an attribute value from a node
func (b *BaseAdapter) GetAttribute(n *html.Node, attrKey string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrKey {
			return attr.Val
		}
	}
	return ""
}

// HasAttribute reports whether a node carries the attribute at all
func (b *BaseAdapter) HasAttribute(n *html.Node, attrKey string) bool {
	for _, attr := range n.Attr {
		if attr.Key == attrKey {
			return true
		}
	}
	return false
}

// FindFirst finds the first node matching a predicate
func (b *BaseAdapter) FindFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}

// tidyLines trims every line and collapses runs of blank lines to one
func tidyLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := true // drops leading blank lines
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}
