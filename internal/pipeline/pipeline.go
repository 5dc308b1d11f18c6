// Package pipeline turns one note file into a quiz report: read, adapt,
// normalize, compose, score and optionally review.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/ppiankov/notequiz/internal/cache"
	"github.com/ppiankov/notequiz/internal/extract"
	"github.com/ppiankov/notequiz/internal/extract/adapters"
	"github.com/ppiankov/notequiz/internal/lexicon"
	"github.com/ppiankov/notequiz/internal/llm"
	"github.com/ppiankov/notequiz/internal/logger"
	"github.com/ppiankov/notequiz/internal/model"
	"github.com/ppiankov/notequiz/internal/quiz"
	"github.com/ppiankov/notequiz/internal/score"
	"github.com/ppiankov/notequiz/internal/worker"
)

// StdinPath is the path that means "read from standard input"
const StdinPath = "-"

// Pipeline orchestrates the complete quiz generation process
type Pipeline struct {
	config    *model.Config
	adapters  *adapters.Registry
	extractor *extract.FactExtractor
	composer  *quiz.Composer
	scorer    *score.Scorer
	reviewer  *llm.Reviewer // Optional LLM reviewer (nil if disabled)
	renderer  *Renderer
	log       *logger.Logger
	now       func() time.Time
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, log *logger.Logger) (*Pipeline, error) {
	if log == nil {
		log = logger.Nop()
	}

	lex, err := lexicon.Load(cfg.Quiz.Lexicon, cfg.Quiz.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}

	shuffle := quiz.DefaultShuffler()
	if cfg.Quiz.Seed != 0 {
		shuffle = quiz.SeededShuffler(cfg.Quiz.Seed)
	}

	// Create LLM reviewer if configured
	var reviewer *llm.Reviewer
	if cfg.LLM.Provider != "" {
		limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
		for name, r := range cfg.RateLimiting.Providers {
			limiter.SetRate(name, r.RequestsPerSecond, r.BurstSize)
		}
		reviewer, err = llm.NewReviewer(
			llm.ConfigFromModel(cfg.LLM),
			cache.New(cfg.Cache),
			limiter,
			log.With("component", "review"),
		)
		if err != nil {
			return nil, fmt.Errorf("initialize LLM review: %w", err)
		}
	}

	return &Pipeline{
		config:    cfg,
		adapters:  adapters.NewRegistry(),
		extractor: extract.NewFactExtractor(lex),
		composer:  quiz.NewComposer(lex, shuffle),
		scorer:    score.NewScorer(),
		reviewer:  reviewer,
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
		log:       log,
		now:       time.Now,
	}, nil
}

// Input describes where a note came from
type Input struct {
	Path    string // File path, or StdinPath
	Subject string // Report title; derived from Path when empty
	Adapter string // Forced adapter name; detected when empty
}

// Renderer returns the renderer configured for this pipeline
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// ReadInput reads a note file, or r when path is StdinPath, enforcing
// input.max_bytes
func (p *Pipeline) ReadInput(path string, r io.Reader) ([]byte, error) {
	if path != StdinPath {
		return p.readFile(path)
	}
	if r == nil {
		return nil, fmt.Errorf("read note: no reader for %q", StdinPath)
	}
	return p.readLimited(r)
}

// GenerateFile reads and processes one note file. path is always a file
// name, so a file called "-" is read from disk rather than stdin.
func (p *Pipeline) GenerateFile(ctx context.Context, path string) (*model.Report, error) {
	raw, err := p.readFile(path)
	if err != nil {
		return nil, err
	}
	return p.Generate(ctx, Input{Path: path}, raw)
}

func (p *Pipeline) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open note: %w", err)
	}
	defer f.Close()
	return p.readLimited(f)
}

func (p *Pipeline) readLimited(r io.Reader) ([]byte, error) {
	limit := p.config.Input.MaxBytes
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read note: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, limit)
	}
	return data, nil
}

// Generate builds the quiz report for raw note content. On abstention the
// report is returned together with ErrAbstained.
func (p *Pipeline) Generate(ctx context.Context, in Input, raw []byte) (*model.Report, error) {
	start := p.now()
	log := p.log.With("source", in.Path)

	text, adapterName, err := p.noteText(in, raw)
	if err != nil {
		log.Warn("note rejected", "error", err)
		return nil, err
	}

	themeID := p.config.Quiz.ThemeID
	outcome := p.composer.Compose(themeID, text, p.config.Quiz.Count)

	report := &model.Report{
		Subject:     subjectFor(in),
		SourcePath:  in.Path,
		SourceID:    themeID,
		Adapter:     adapterName,
		GeneratedAt: start.UTC(),
		Text:        text,
		Facts:       outcome.Facts,
		Questions:   outcome.Questions,
		Evidence:    quiz.Evidence(text, outcome.Questions),
		Principles:  model.DefaultPrinciples(),
	}

	report.Score = p.scorer.Calculate(score.Input{
		Lines:       len(extract.NormalizeLines(text)),
		Facts:       outcome.Facts,
		Candidates:  outcome.Candidates,
		Questions:   outcome.Questions,
		Real:        outcome.Real,
		Paraphrased: outcome.Paraphrased,
		Filler:      outcome.Filler,
	})

	if outcome.Abstained() {
		report.Status = model.ThemeError
		report.ErrorMessage = p.composer.AbstainMessage()
		report.Questions = []model.Question{}
		log.Info("quiz withheld",
			"facts", len(outcome.Facts),
			"candidates", outcome.Candidates,
			"skipped", outcome.Skipped)
		return report, ErrAbstained
	}
	report.Status = model.ThemeReady

	// Review runs after scoring and never changes the questions
	if p.reviewer != nil && p.reviewer.IsEnabled() {
		report.Review = p.reviewer.Review(ctx, report)
	}

	log.Info("quiz generated",
		"adapter", adapterName,
		"facts", len(report.Facts),
		"questions", len(report.Questions),
		"index", report.Score.Index,
		"elapsed", time.Since(start))

	return report, nil
}

// Facts runs only the adapter and the fact extractor
func (p *Pipeline) Facts(in Input, raw []byte) ([]model.Fact, error) {
	text, _, err := p.noteText(in, raw)
	if err != nil {
		return nil, err
	}
	return p.extractor.Extract(text, p.config.Quiz.ThemeID), nil
}

// noteText converts raw input into NFC-normalized note text
func (p *Pipeline) noteText(in Input, raw []byte) (string, string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", "", ErrEmptyInput
	}

	adapter, err := p.selectAdapter(in, raw)
	if err != nil {
		return "", "", err
	}

	text, err := adapter.Text(raw)
	if err != nil {
		if errors.Is(err, adapters.ErrBinaryContent) {
			return "", "", fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
		}
		return "", "", fmt.Errorf("%s adapter: %w", adapter.Name(), err)
	}

	text = norm.NFC.String(text)
	if strings.TrimSpace(text) == "" {
		return "", "", ErrEmptyInput
	}
	return text, adapter.Name(), nil
}

func (p *Pipeline) selectAdapter(in Input, raw []byte) (adapters.Adapter, error) {
	if in.Adapter != "" {
		adapter, err := p.adapters.ByName(in.Adapter)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
		}
		return adapter, nil
	}

	path := in.Path
	if path == StdinPath {
		path = ""
	}
	contentType := http.DetectContentType(raw)
	return p.adapters.FindAdapter(path, contentType), nil
}

// subjectFor derives a human-readable title from the input
func subjectFor(in Input) string {
	if in.Subject != "" {
		return in.Subject
	}
	if in.Path == "" || in.Path == StdinPath {
		return "stdin"
	}
	base := filepath.Base(in.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
