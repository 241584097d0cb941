package main

import (
	"fmt"
	"os"
	"time"

	"clausify/internal/config"
	"clausify/internal/lexicon"
	"clausify/internal/review"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	lexiconPath string
	timeout     time.Duration

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "clausify",
	Short: "clausify - natural language to Prolog translation workbench",
	Long: `clausify translates English prose into Prolog clauses.

Sentences are matched against a lexicon of word entries and prioritized
sentence patterns; matches expand a clause template, misses fall back to a
normalized prolog_fact and land in the review log for lexicon curation.
The translated clauses can then be queried with a Prolog-like evaluator or
fed into an embedded Datalog engine for recursive rule evaluation.

Run without arguments to start the interactive translator.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if lexiconPath != "" {
			cfg.Lexicon = lexiconPath
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd, args)
	},
}

// openLexicon loads the configured lexicon database.
func openLexicon() (*lexicon.DB, error) {
	db, err := lexicon.Open(cfg.Lexicon)
	if err != nil {
		return nil, fmt.Errorf("open lexicon %s: %w", cfg.Lexicon, err)
	}
	logger.Debug("lexicon loaded",
		zap.String("path", cfg.Lexicon),
		zap.Int("words", db.WordCount()),
		zap.Int("patterns", db.PatternCount()))
	return db, nil
}

// openReviewLog opens the configured review log.
func openReviewLog() (*review.Log, error) {
	log, err := review.Open(cfg.ReviewLog)
	if err != nil {
		return nil, fmt.Errorf("open review log %s: %w", cfg.ReviewLog, err)
	}
	return log, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "clausify.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVarP(&lexiconPath, "lexicon", "l", "", "Lexicon database path (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(datalogCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(sqliteCmd)
	rootCmd.AddCommand(interactiveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
