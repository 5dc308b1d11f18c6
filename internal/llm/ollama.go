package llm

const defaultOllamaURL = "http://localhost:11434/v1"

// NewOllamaProvider creates a provider for a local Ollama server using its
// OpenAI-compatible endpoint. Ollama ignores the API key, so none is required.
func NewOllamaProvider(config Config) (*OpenAIProvider, error) {
	if config.BaseURL == "" {
		config.BaseURL = defaultOllamaURL
	}
	if config.APIKey == "" {
		config.APIKey = "ollama"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 // Local models can be slow
	}
	return newChatProvider("ollama", config), nil
}
