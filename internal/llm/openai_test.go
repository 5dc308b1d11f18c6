package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/notequiz/internal/model"
	"github.com/sashabaranov/go-openai"
)

const testEvidence = "Ura: Hidrogeno eta oxigeno atomoz osatutako konposatu ezaguna"

func testQuestion() model.Question {
	return model.Question{
		ID:   "q-1",
		Stem: "Zer da Ura?",
		Options: []string{
			"Hidrogeno eta oxigeno atomoz osatutako konposatu ezaguna",
			"Materiaren unitate txikiena",
			"Bi atomo edo gehiago lotuta",
			"Karga elektrikoa duen atomoa",
		},
		CorrectIndex: 0,
	}
}

// chatServer answers chat completions with content
func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, testEvidence) {
			t.Errorf("Expected prompt to carry the evidence, got %+v", req.Messages)
		}

		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-123",
			Object: "chat.completion",
			Model:  "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Index:        0,
					Message:      openai.ChatCompletionMessage{Role: "assistant", Content: content},
					FinishReason: "stop",
				},
			},
			Usage: openai.Usage{TotalTokens: 42},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIProvider_Review_Success(t *testing.T) {
	server := chatServer(t, "VERDICT: SUPPORTED\nQUOTE: Hidrogeno eta oxigeno atomoz")
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		Model:          "gpt-4o-mini",
		Timeout:        5,
		StrictEvidence: true,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Review(context.Background(), ReviewRequest{Question: testQuestion(), Evidence: testEvidence})
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}

	if !resp.Supported {
		t.Error("Expected supported verdict")
	}
	if resp.Quote != "Hidrogeno eta oxigeno atomoz" {
		t.Errorf("Unexpected quote: %q", resp.Quote)
	}
	if resp.TokensUsed != 42 {
		t.Errorf("Expected 42 tokens, got %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_Review_QuoteLeak(t *testing.T) {
	server := chatServer(t, "VERDICT: SUPPORTED\nQUOTE: Water is H2O according to chemistry books")
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5, StrictEvidence: true})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Review(context.Background(), ReviewRequest{Question: testQuestion(), Evidence: testEvidence})
	if !errors.Is(err, ErrQuoteLeak) {
		t.Fatalf("Expected quote leak, got %v", err)
	}
}

func TestOpenAIProvider_Review_NonStrictAllowsOutsideQuote(t *testing.T) {
	server := chatServer(t, "VERDICT: UNSUPPORTED\nQUOTE: something else")
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Review(context.Background(), ReviewRequest{Question: testQuestion(), Evidence: testEvidence})
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if resp.Supported {
		t.Error("Expected unsupported verdict")
	}
}

func TestOpenAIProvider_Review_MalformedVerdict(t *testing.T) {
	server := chatServer(t, "I think this is probably right.")
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Review(context.Background(), ReviewRequest{Question: testQuestion(), Evidence: testEvidence})
	if !errors.Is(err, ErrMalformedVerdict) {
		t.Fatalf("Expected malformed verdict, got %v", err)
	}
}

func TestOpenAIProvider_Review_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "Internal Server Error", "type": "server_error"}}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Review(context.Background(), ReviewRequest{Question: testQuestion(), Evidence: testEvidence}); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestOpenAIProvider_Review_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ID: "chatcmpl-123"})
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Review(context.Background(), ReviewRequest{Question: testQuestion(), Evidence: testEvidence})
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("Expected no response error, got %v", err)
	}
}

func TestOpenAIProvider_Review_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 1})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	// The caller's shorter deadline wins over the configured timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := provider.Review(ctx, ReviewRequest{Question: testQuestion(), Evidence: testEvidence}); err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
}

func TestOpenAIProvider_IsAvailable(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if healthy.Load() && r.URL.Path == "/models" {
			_, _ = w.Write([]byte(`{"data": [{"id": "gpt-4o-mini"}]}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	healthy.Store(false)
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("Expected error without API key")
	}
}

func TestNewOllamaProvider_Defaults(t *testing.T) {
	provider, err := NewOllamaProvider(Config{Model: "llama3.1"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if provider.Name() != "ollama" {
		t.Errorf("Expected name ollama, got %s", provider.Name())
	}
	if provider.config.BaseURL != defaultOllamaURL {
		t.Errorf("Expected base URL %s, got %s", defaultOllamaURL, provider.config.BaseURL)
	}
	if provider.config.Timeout != 60 {
		t.Errorf("Expected 60s timeout, got %d", provider.config.Timeout)
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{})
	if err != nil || p != nil {
		t.Errorf("Expected disabled provider, got %v, %v", p, err)
	}

	if _, err := NewProvider(Config{Provider: "anthropic"}); err == nil {
		t.Error("Expected error for unknown provider")
	}

	p, err = NewProvider(Config{Provider: "OpenAI", APIKey: "k"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("Expected openai, got %s", p.Name())
	}
}
