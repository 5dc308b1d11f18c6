package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/notequiz/internal/model"
)

var (
	// ErrQuoteLeak means the reviewer quoted text that is not in the notes
	ErrQuoteLeak = errors.New("quote leak: reviewer quoted text not present in the evidence")

	// ErrNoResponse means the provider returned no choices
	ErrNoResponse = errors.New("no response from provider")

	// ErrMalformedVerdict means the reply had no VERDICT line
	ErrMalformedVerdict = errors.New("malformed verdict")
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Review judges whether a question's correct answer is supported by the evidence
	Review(ctx context.Context, req ReviewRequest) (*ReviewResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ReviewRequest contains the input for one question review
type ReviewRequest struct {
	Question model.Question

	// Evidence is the note excerpt the question was built from. It is the
	// STRICT source for quotes: a quote not found here is rejected.
	Evidence string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ReviewResponse contains the reviewer's verdict
type ReviewResponse struct {
	Supported  bool
	Quote      string // Excerpt of the evidence the verdict relies on
	Raw        string // Unparsed reply
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama's OpenAI-compatible /v1)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictEvidence rejects quotes that are not in the evidence (should always be true)
	StrictEvidence bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "", // Disabled by default
		Timeout:        30,
		StrictEvidence: true,
		MaxTokens:      300,
	}
}

// BuildPrompt constructs the default review prompt
func BuildPrompt(q model.Question, evidence string) string {
	var b strings.Builder

	b.WriteString(`You are checking a multiple-choice question generated from a student's notes.
Decide ONLY from the notes excerpt below whether the marked answer is what the notes say.

CRITICAL RULES:
1. Use nothing but the notes excerpt. Do not use outside knowledge.
2. If the excerpt does not clearly support the marked answer, the verdict is UNSUPPORTED.
3. QUOTE must be copied character for character from the excerpt, or left empty.
4. Reply with exactly two lines:
VERDICT: SUPPORTED or UNSUPPORTED
QUOTE: <exact excerpt text>

Notes excerpt:
"""
`)
	b.WriteString(evidence)
	b.WriteString("\n\"\"\"\n\n")
	fmt.Fprintf(&b, "Question: %s\n", q.Stem)
	for i, opt := range q.Options {
		marker := " "
		if i == q.CorrectIndex {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %c) %s\n", marker, 'A'+i, opt)
	}
	b.WriteString("\nThe marked (*) option is the answer to check.")

	return b.String()
}

// ParseVerdict reads the VERDICT and QUOTE lines of a reply
func ParseVerdict(reply string) (supported bool, quote string, err error) {
	found := false
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)

		switch {
		case strings.HasPrefix(upper, "VERDICT:"):
			value := strings.TrimSpace(upper[len("VERDICT:"):])
			switch {
			case strings.HasPrefix(value, "UNSUPPORTED"), strings.HasPrefix(value, "NOT SUPPORTED"):
				supported = false
			case strings.HasPrefix(value, "SUPPORTED"):
				supported = true
			default:
				return false, "", fmt.Errorf("%w: unknown verdict %q", ErrMalformedVerdict, value)
			}
			found = true
		case strings.HasPrefix(upper, "QUOTE:"):
			quote = strings.Trim(strings.TrimSpace(line[len("QUOTE:"):]), `"“”`)
		}
	}

	if !found {
		return false, "", ErrMalformedVerdict
	}
	return supported, quote, nil
}

// CheckQuote verifies that quote appears in evidence, ignoring differences in
// whitespace. An empty quote is allowed.
func CheckQuote(quote, evidence string) error {
	q := collapse(quote)
	if q == "" {
		return nil
	}
	if !strings.Contains(collapse(evidence), q) {
		return fmt.Errorf("%w: %q", ErrQuoteLeak, quote)
	}
	return nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
