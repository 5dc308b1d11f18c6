package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/notequiz/internal/lexicon"
	"github.com/ppiankov/notequiz/internal/model"
)

var (
	initLexicon bool
	initForce   bool
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage notequiz configuration",
	Long: `Manage notequiz configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (NOTEQUIZ_*, OPENAI_API_KEY)
3. Config file (~/.notequiz/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after defaults, config file and environment variables are applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.LLM.APIKey != "" {
			cfg.LLM.APIKey = "[REDACTED]"
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
		fmt.Fprintln(out, "  Current Configuration")
		fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
		fmt.Fprintln(out)
		fmt.Fprintln(out, string(yamlData))

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long: `Create a default configuration file at ~/.notequiz/config.yaml.

With --lexicon the active lexicon tables are also written to
~/.notequiz/lexicon.yaml and referenced from the config, ready to edit.`,
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&initLexicon, "lexicon", false, "also write the lexicon tables for editing")
	configInitCmd.Flags().StringVar(&lexiconName, "lexicon-name", "eu-es", "built-in lexicon to write with --lexicon")
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("error finding home directory: %w", err)
	}
	configDir := filepath.Join(home, ".notequiz")
	configPath := filepath.Join(configDir, "config.yaml")

	if !initForce {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'notequiz config show' to view it, or --force to recreate", configPath)
		}
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	defaultCfg := model.DefaultConfig()

	if initLexicon {
		lex, err := lexicon.ByName(lexiconName)
		if err != nil {
			return err
		}
		data, err := lex.Marshal()
		if err != nil {
			return fmt.Errorf("error marshaling lexicon: %w", err)
		}
		lexPath := filepath.Join(configDir, "lexicon.yaml")
		if err := os.WriteFile(lexPath, data, 0644); err != nil {
			return fmt.Errorf("error writing lexicon: %w", err)
		}
		defaultCfg.Quiz.Lexicon = lex.Name
		defaultCfg.Quiz.LexiconPath = lexPath
		fmt.Printf("✓ Wrote lexicon tables: %s\n", lexPath)
	}

	yamlData, err := yaml.Marshal(defaultCfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	header := `# notequiz configuration file
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (NOTEQUIZ_*, e.g. NOTEQUIZ_QUIZ_COUNT=8)
#   3. This config file
#   4. Built-in defaults

`
	footer := `
# API keys (recommended to use environment variables instead):
#   export OPENAI_API_KEY=sk-...
#   export OLLAMA_BASE_URL=http://localhost:11434/v1
`

	content := header + string(yamlData) + footer
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configPath)
	fmt.Printf("\nTo view the configuration:\n")
	fmt.Printf("  notequiz config show\n")
	fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
	fmt.Printf("  $EDITOR %s\n", configPath)
	fmt.Printf("\n")

	return nil
}
