package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/notequiz/internal/model"
	"github.com/ppiankov/notequiz/internal/pipeline"
)

const defaultOllamaModel = "llama3.1"

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	count       int
	seed        uint64
	lexiconName string
	lexiconFile string
	maxBytes    int64
	adapterName string
	subject     string
	noCache     bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <file|->",
	Short: "Generate a quiz from one note file",
	Long: `Generate reads a note file (or stdin with "-") and:
- Extracts term/definition facts from the note lines
- Builds multiple-choice questions whose correct answer is a copied definition
- Attaches the note excerpt behind every question
- Scores how ready the notes are for a quiz
- Optionally asks an LLM to review each question against its excerpt

When the notes carry fewer than 4 usable facts or questions, no quiz is
produced and the command exits with an error.

Example:
  notequiz generate kimika.txt
  notequiz generate kimika.md --json quiz.json --md quiz.md
  cat apunteak.txt | notequiz generate - --count 8 --seed 42
  notequiz generate kimika.txt --llm --llm-provider ollama --llm-model llama3.1`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	// Output flags
	generateCmd.Flags().StringVar(&outJSON, "json", "", `output JSON path ("-" for stdout)`)
	generateCmd.Flags().StringVar(&outMD, "md", "", `output Markdown path ("-" for stdout; default when no output is given)`)
	generateCmd.Flags().StringVar(&adapterName, "adapter", "", "input adapter (text, markdown, html; detected when empty)")
	generateCmd.Flags().StringVar(&subject, "subject", "", "report title (default: file name)")
	generateCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout (LLM review included)")

	addQuizFlags(generateCmd)
}

// addQuizFlags registers the flags generate and batch share
func addQuizFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&count, "count", 16, "maximum number of questions")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "shuffle seed for reproducible quizzes (0 = random)")
	cmd.Flags().StringVar(&lexiconName, "lexicon", "eu-es", "built-in lexicon (eu-es, en)")
	cmd.Flags().StringVar(&lexiconFile, "lexicon-file", "", "YAML file overriding lexicon tables")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max note bytes to read")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the review cache")
	cmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM review of the questions")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (default: gpt-4o-mini, llama3.1 for ollama)")
}

// applyQuizFlags layers explicitly set flags over the loaded configuration
func applyQuizFlags(cmd *cobra.Command, cfg *model.Config) error {
	flags := cmd.Flags()

	if flags.Changed("count") {
		cfg.Quiz.Count = count
	}
	if flags.Changed("seed") {
		cfg.Quiz.Seed = seed
	}
	if flags.Changed("lexicon") {
		cfg.Quiz.Lexicon = lexiconName
	}
	if flags.Changed("lexicon-file") {
		cfg.Quiz.LexiconPath = lexiconFile
	}
	if flags.Changed("max-bytes") {
		cfg.Input.MaxBytes = maxBytes
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if verbose {
		cfg.Output.Verbose = true
	}

	// Configure LLM if enabled
	if llmEnabled {
		if flags.Changed("llm-provider") || cfg.LLM.Provider == "" {
			cfg.LLM.Provider = llmProvider
		}
		cfg.LLM.StrictEvidence = true // Always enforce
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}

	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
		if !flags.Changed("llm-model") && cfg.LLM.Model == model.DefaultConfig().LLM.Model {
			cfg.LLM.Model = defaultOllamaModel
		}
	}

	return cfg.Validate()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyQuizFlags(cmd, cfg); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	if verbose {
		fmt.Fprintf(os.Stderr, "Reading: %s\n", path)
		fmt.Fprintf(os.Stderr, "Lexicon: %s\n", cfg.Quiz.Lexicon)
		if cfg.LLM.Provider != "" {
			fmt.Fprintf(os.Stderr, "LLM review: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg, log)
	if err != nil {
		return err
	}

	raw, err := p.ReadInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	report, genErr := p.Generate(ctx, pipeline.Input{Path: path, Subject: subject, Adapter: adapterName}, raw)
	if genErr != nil && !errors.Is(genErr, pipeline.ErrAbstained) {
		return fmt.Errorf("generate failed: %w", genErr)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Found %d facts\n", len(report.Facts))
		fmt.Fprintf(os.Stderr, "✓ Built %d questions\n", len(report.Questions))
		fmt.Fprintf(os.Stderr, "✓ Readiness index: %d/100\n", report.Score.Index)
		if report.Review != nil && report.Review.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Reviewed with %s/%s\n", report.Review.Provider, report.Review.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := renderReport(p.Renderer(), report, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if genErr != nil {
		// Non-zero exit with the corrective message
		return fmt.Errorf("%w: %s", genErr, report.ErrorMessage)
	}
	return nil
}

// renderReport writes the requested outputs; with none requested the
// Markdown quiz goes to stdout
func renderReport(r *pipeline.Renderer, report *model.Report, jsonPath, mdPath string) error {
	if jsonPath == "" && mdPath == "" {
		mdPath = pipeline.StdoutPath
	}

	if jsonPath != "" {
		if err := r.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose && jsonPath != pipeline.StdoutPath {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := r.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose && mdPath != pipeline.StdoutPath {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	if jsonPath != pipeline.StdoutPath && mdPath != pipeline.StdoutPath {
		r.WriteSummary(os.Stderr, report)
	}
	return nil
}
