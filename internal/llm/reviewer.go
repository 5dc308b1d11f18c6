package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/notequiz/internal/cache"
	"github.com/ppiankov/notequiz/internal/logger"
	"github.com/ppiankov/notequiz/internal/model"
	"github.com/ppiankov/notequiz/internal/worker"
)

// Reviewer annotates generated questions with LLM verdicts.
// It never adds, removes or edits questions.
type Reviewer struct {
	provider Provider
	config   Config
	cache    cache.Cache
	limiter  *worker.Limiter
	log      *logger.Logger
}

// NewReviewer creates a reviewer from configuration. A nil cache, limiter or
// logger disables that concern. With no provider configured the reviewer is
// disabled and Review returns nil.
func NewReviewer(config Config, c cache.Cache, limiter *worker.Limiter, log *logger.Logger) (*Reviewer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	return newReviewer(provider, config, c, limiter, log), nil
}

func newReviewer(provider Provider, config Config, c cache.Cache, limiter *worker.Limiter, log *logger.Logger) *Reviewer {
	if c == nil {
		c = cache.NopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Reviewer{
		provider: provider,
		config:   config,
		cache:    c,
		limiter:  limiter,
		log:      log,
	}
}

// IsEnabled returns true if a provider is configured
func (r *Reviewer) IsEnabled() bool {
	return r != nil && r.provider != nil
}

// ProviderName returns the name of the configured provider
func (r *Reviewer) ProviderName() string {
	if !r.IsEnabled() {
		return "none"
	}
	return r.provider.Name()
}

type cachedVerdict struct {
	Supported bool   `json:"supported"`
	Quote     string `json:"quote,omitempty"`
}

// Review checks every question of the report against its evidence snippet.
// Provider failures become warnings; the report is never rejected.
func (r *Reviewer) Review(ctx context.Context, report *model.Report) *model.Review {
	if !r.IsEnabled() {
		return nil
	}

	review := &model.Review{
		Enabled:        true,
		Provider:       r.provider.Name(),
		Model:          r.config.Model,
		StrictEvidence: r.config.StrictEvidence,
	}
	if len(report.Questions) == 0 {
		return review
	}

	if !r.provider.IsAvailable(ctx) {
		r.log.Warn("llm provider unavailable", "provider", review.Provider)
		review.Warnings = append(review.Warnings,
			fmt.Sprintf("LLM provider %s is not available; questions were not reviewed", review.Provider))
		return review
	}

	evidence := make(map[string]string, len(report.Evidence))
	for _, ref := range report.Evidence {
		evidence[ref.QuestionID] = ref.Snippet
	}

	for _, q := range report.Questions {
		verdict, err := r.reviewQuestion(ctx, q, evidence[q.ID])
		if err != nil {
			if ctx.Err() != nil {
				review.Warnings = append(review.Warnings, fmt.Sprintf("review interrupted: %v", ctx.Err()))
				break
			}
			r.log.Warn("question review failed", "question_id", q.ID, "provider", review.Provider, "error", err)
			review.Warnings = append(review.Warnings, fmt.Sprintf("question %s: %v", q.ID, err))
			continue
		}
		review.Verdicts = append(review.Verdicts, verdict)
	}

	r.log.Info("review finished",
		"provider", review.Provider,
		"questions", len(report.Questions),
		"verdicts", len(review.Verdicts),
		"unsupported", review.Unsupported(),
		"warnings", len(review.Warnings))

	return review
}

func (r *Reviewer) reviewQuestion(ctx context.Context, q model.Question, snippet string) (model.Verdict, error) {
	if snippet == "" {
		return model.Verdict{}, fmt.Errorf("no evidence snippet")
	}

	key := cache.Key("review",
		r.provider.Name(), r.config.Model,
		q.Stem, strings.Join(q.Options, "\x1f"), strconv.Itoa(q.CorrectIndex),
		snippet)

	if data, ok := r.cache.Get(key); ok {
		var cv cachedVerdict
		if err := json.Unmarshal(data, &cv); err == nil {
			r.log.Debug("review cache hit", "question_id", q.ID)
			return model.Verdict{QuestionID: q.ID, Supported: cv.Supported, Quote: cv.Quote, Cached: true}, nil
		}
		_ = r.cache.Delete(key)
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx, r.provider.Name()); err != nil {
			return model.Verdict{}, fmt.Errorf("rate limiter: %w", err)
		}
	}

	resp, err := r.provider.Review(ctx, ReviewRequest{
		Question:  q,
		Evidence:  snippet,
		Model:     r.config.Model,
		MaxTokens: r.config.MaxTokens,
	})
	if err != nil {
		return model.Verdict{}, err
	}

	if data, err := json.Marshal(cachedVerdict{Supported: resp.Supported, Quote: resp.Quote}); err == nil {
		if err := r.cache.Set(key, data, 0); err != nil {
			r.log.Warn("review cache write failed", "error", err)
		}
	}

	return model.Verdict{QuestionID: q.ID, Supported: resp.Supported, Quote: resp.Quote}, nil
}
