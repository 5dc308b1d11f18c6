package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all notequiz configuration
type Config struct {
	Quiz         QuizConfig         `yaml:"quiz" mapstructure:"quiz"`
	Input        InputConfig        `yaml:"input" mapstructure:"input"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// QuizConfig controls question generation
type QuizConfig struct {
	Count       int    `yaml:"count" mapstructure:"count" validate:"gte=1,lte=200"`
	ThemeID     string `yaml:"theme_id" mapstructure:"theme_id" validate:"required"`
	Lexicon     string `yaml:"lexicon" mapstructure:"lexicon" validate:"required"`
	LexiconPath string `yaml:"lexicon_path,omitempty" mapstructure:"lexicon_path"`
	Seed        uint64 `yaml:"seed,omitempty" mapstructure:"seed"` // 0 = non-deterministic shuffles
}

// InputConfig controls how note files are read
type InputConfig struct {
	MaxBytes int64 `yaml:"max_bytes" mapstructure:"max_bytes" validate:"gt=0"`
}

// CacheConfig controls the LLM review cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir" validate:"required_if=Enabled true"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl" validate:"gte=0"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl" validate:"gte=0"`
}

// ConcurrencyConfig controls the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gte=1,lte=256"`
}

// RateLimitingConfig throttles calls to the LLM provider
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gt=0"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size" validate:"gte=1"`

	// Providers overrides the limit for one provider name
	Providers map[string]ProviderRateConfig `yaml:"providers,omitempty" mapstructure:"providers" validate:"dive"`
}

// ProviderRateConfig is a per-provider limit; a zero rate means unlimited
type ProviderRateConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gte=0"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size" validate:"gte=0"`
}

// LLMConfig configures the optional evidence review
type LLMConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider" validate:"omitempty,oneof=openai ollama"`
	Model          string `yaml:"model" mapstructure:"model"`
	APIKey         string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL        string `yaml:"base_url,omitempty" mapstructure:"base_url" validate:"omitempty,url"`
	Timeout        int    `yaml:"timeout" mapstructure:"timeout" validate:"gte=1"` // seconds
	MaxTokens      int    `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=1"`
	StrictEvidence bool   `yaml:"strict_evidence" mapstructure:"strict_evidence"`
	HTTPProxy      string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy" validate:"omitempty,url"`
	HTTPSProxy     string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy" validate:"omitempty,url"`
	NoProxy        string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Mode  string `yaml:"mode" mapstructure:"mode" validate:"oneof=dev prod"`
	Level string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	cacheDir := ".notequiz-cache"
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".notequiz", "cache")
	}

	return &Config{
		Quiz: QuizConfig{
			Count:   16,
			ThemeID: "theme",
			Lexicon: "eu-es",
		},
		Input: InputConfig{
			MaxBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
			Providers: map[string]ProviderRateConfig{
				// Local models have no API quota
				"ollama": {RequestsPerSecond: 0, BurstSize: 1},
			},
		},
		LLM: LLMConfig{
			Provider:       "", // Disabled by default
			Model:          "gpt-4o-mini",
			Timeout:        30,
			MaxTokens:      300,
			StrictEvidence: true,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		Log: LogConfig{
			Mode:  "dev",
			Level: "warn",
		},
	}
}

var validate = validator.New()

// Validate checks field constraints declared in struct tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
