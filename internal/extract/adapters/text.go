package adapters

// TextAdapter passes plain text notes through unchanged
type TextAdapter struct {
	BaseAdapter
}

// NewTextAdapter creates a new plain text adapter
func NewTextAdapter() *TextAdapter {
	return &TextAdapter{}
}

// Name returns the adapter name
func (a *TextAdapter) Name() string {
	return "text"
}

// CanHandle accepts .txt files and text/plain content
func (a *TextAdapter) CanHandle(path string, contentType string) bool {
	return a.HasExtension(path, ".txt", ".text") || a.HasContentType(contentType, "text/plain")
}

// Text returns the note as-is so fact spans point into the original file
func (a *TextAdapter) Text(raw []byte) (string, error) {
	return a.DecodeText(raw)
}
