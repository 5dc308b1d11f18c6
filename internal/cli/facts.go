package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/notequiz/internal/model"
	"github.com/ppiankov/notequiz/internal/pipeline"
)

var factsJSON bool

// factsCmd represents the facts command
var factsCmd = &cobra.Command{
	Use:   "facts <file|->",
	Short: "List the concepts found in a note file",
	Long: `Facts runs only the fact extractor and prints every term/definition pair
it recovered, with the byte span it came from. Use it to check why a note
does or does not produce a quiz.

Example:
  notequiz facts kimika.txt
  notequiz facts kimika.md --json`,
	Args: cobra.ExactArgs(1),
	RunE: runFacts,
}

func init() {
	rootCmd.AddCommand(factsCmd)

	factsCmd.Flags().BoolVar(&factsJSON, "json", false, "print facts as JSON")
	factsCmd.Flags().StringVar(&adapterName, "adapter", "", "input adapter (text, markdown, html; detected when empty)")
	factsCmd.Flags().StringVar(&lexiconName, "lexicon", "eu-es", "built-in lexicon (eu-es, en)")
	factsCmd.Flags().StringVar(&lexiconFile, "lexicon-file", "", "YAML file overriding lexicon tables")
	factsCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max note bytes to read")
}

func runFacts(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("lexicon") {
		cfg.Quiz.Lexicon = lexiconName
	}
	if flags.Changed("lexicon-file") {
		cfg.Quiz.LexiconPath = lexiconFile
	}
	if flags.Changed("max-bytes") {
		cfg.Input.MaxBytes = maxBytes
	}
	cfg.LLM.Provider = "" // Extraction only
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	p, err := pipeline.NewPipeline(cfg, log)
	if err != nil {
		return err
	}

	raw, err := p.ReadInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	facts, err := p.Facts(pipeline.Input{Path: path, Adapter: adapterName}, raw)
	if err != nil {
		return fmt.Errorf("extract facts: %w", err)
	}

	out := cmd.OutOrStdout()
	if factsJSON {
		if facts == nil {
			facts = []model.Fact{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(facts)
	}

	if len(facts) == 0 {
		fmt.Fprintln(os.Stderr, "No concepts found.")
		return nil
	}
	if err := p.Renderer().WriteFacts(out, facts); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "\n%d concepts found\n", len(facts))
	return nil
}
