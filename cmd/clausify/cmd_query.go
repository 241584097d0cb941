package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"clausify/internal/engine"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	queryFactsPath string
	queryRulesPath string
)

// queryCmd evaluates Prolog-like queries over translated output.
var queryCmd = &cobra.Command{
	Use:   "query -f facts.pl [query]",
	Short: "Query translated Prolog output",
	Long: `Evaluates Prolog-like queries against a file of translated clauses.

Supported query shapes:
  animal(X)               all X that are animals (bidirectional: the
                          clause bear(animal) also answers this)
  animal(X), action(Y)    conjunction
  phrase(sentence, X)     generate combinations from a phrase pattern

Rules (head :- body) and phrases (name --> components) come from the rules
file. Without a query argument, starts a read-eval-print loop.

Example:
  clausify query -f facts.pl -r rules.pl "mortal(X)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryFactsPath, "facts", "f", "", "Translated facts file (required)")
	queryCmd.Flags().StringVarP(&queryRulesPath, "rules", "r", "", "Rules and phrase patterns file")
	queryCmd.MarkFlagRequired("facts")
}

func runQuery(cmd *cobra.Command, args []string) error {
	eng := engine.New(engine.Config{
		QueryTimeout: cfg.EngineTimeout(),
		MaxResults:   cfg.Engine.MaxResults,
	})

	loaded, err := eng.LoadFactsFile(queryFactsPath)
	if err != nil {
		return err
	}
	logger.Debug("facts loaded", zap.String("path", queryFactsPath), zap.Int("count", loaded))

	rulesPath := queryRulesPath
	if rulesPath == "" {
		rulesPath = cfg.Rules
	}
	if rulesPath != "" {
		if err := eng.LoadRulesFile(rulesPath); err != nil {
			return err
		}
		logger.Debug("rules loaded", zap.String("path", rulesPath), zap.Int("count", eng.RuleCount()))
	}

	if len(args) == 1 {
		return runOneQuery(cmd, eng, args[0])
	}

	// REPL
	fmt.Printf("Loaded %d facts. Enter queries, blank line or \"quit\" to exit.\n", loaded)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("?- ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "quit" || line == "exit" {
			break
		}
		if err := runOneQuery(cmd, eng, line); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func runOneQuery(cmd *cobra.Command, eng *engine.Engine, query string) error {
	result, err := eng.Query(cmd.Context(), query)
	if err != nil {
		return err
	}
	if len(result.Bindings) == 0 {
		fmt.Println("false.")
		return nil
	}
	for _, b := range result.Bindings {
		fmt.Println(b)
	}
	logger.Debug("query evaluated",
		zap.String("query", query),
		zap.Int("results", len(result.Bindings)),
		zap.Duration("duration", result.Duration))
	return nil
}
