package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"clausify/internal/parser"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	parseFactsOnly bool
	parseOutPath   string
)

// parseCmd translates prose into Prolog clauses.
var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Translate natural language text into Prolog clauses",
	Long: `Translates English prose into Prolog clauses using the lexicon's
sentence patterns. With no file arguments, reads from stdin.

Multiple files are translated concurrently; output keeps input order.
Unknown words and unmatched sentences are appended to the review log.

Example:
  clausify parse story.txt
  echo "Bear is an animal." | clausify parse`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseFactsOnly, "facts-only", false, "Suppress provenance comments in the output")
	parseCmd.Flags().StringVarP(&parseOutPath, "out", "o", "", "Write output to a file instead of stdout")
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := openLexicon()
	if err != nil {
		return err
	}
	reviewLog, err := openReviewLog()
	if err != nil {
		return err
	}
	defer reviewLog.Close()

	var out io.Writer = os.Stdout
	if parseOutPath != "" {
		f, err := os.Create(parseOutPath)
		if err != nil {
			return fmt.Errorf("create output %s: %w", parseOutPath, err)
		}
		defer f.Close()
		out = f
	}

	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		t := parser.NewTranslator(db, reviewLog)
		t.FactsOnly = parseFactsOnly
		results, stats := t.TranslateDocument(string(data))
		fmt.Fprint(out, parser.Render(results, parseFactsOnly))
		logStats(stats)
		return nil
	}

	// One translator per file: pronoun state must not leak across
	// documents, and the translators share the lexicon read-only.
	rendered := make([]string, len(args))
	statsAll := make([]parser.Stats, len(args))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range args {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			t := parser.NewTranslator(db, reviewLog)
			t.FactsOnly = parseFactsOnly
			results, stats := t.TranslateDocument(string(data))
			rendered[i] = parser.Render(results, parseFactsOnly)
			statsAll[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var total parser.Stats
	for i, text := range rendered {
		if !parseFactsOnly && len(args) > 1 {
			fmt.Fprintf(out, "%% ==== %s ====\n", args[i])
		}
		fmt.Fprint(out, text)
		total.Sentences += statsAll[i].Sentences
		total.Matched += statsAll[i].Matched
		total.Fallback += statsAll[i].Fallback
		total.UnknownWords += statsAll[i].UnknownWords
	}
	logStats(total)
	return nil
}

func logStats(stats parser.Stats) {
	logger.Info("translation complete",
		zap.Int("sentences", stats.Sentences),
		zap.Int("matched", stats.Matched),
		zap.Int("fallback", stats.Fallback),
		zap.Int("unknown_words", stats.UnknownWords))
}
