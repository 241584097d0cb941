package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"clausify/internal/datalog"
	"clausify/internal/engine"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	datalogFactsPath   string
	datalogProgramPath string
	datalogStats       bool
)

// datalogCmd runs Mangle Datalog programs over translated facts.
var datalogCmd = &cobra.Command{
	Use:   "datalog -f facts.pl [-p program.mg] [query]",
	Short: "Run Datalog rules over translated facts",
	Long: `Loads translated clauses into the embedded Mangle Datalog engine and
evaluates a query. Predicate declarations are synthesized from the facts;
a program file can add rules (and further declarations).

Unlike "clausify query", this path gives full stratified Datalog semantics:
recursion, negation, aggregation - at the price of the translator's
bidirectional matching, which is not expressible there.

Example:
  clausify datalog -f facts.pl -p ancestry.mg "ancestor(X, Y)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDatalog,
}

func init() {
	datalogCmd.Flags().StringVarP(&datalogFactsPath, "facts", "f", "", "Translated facts file (required)")
	datalogCmd.Flags().StringVarP(&datalogProgramPath, "program", "p", "", "Mangle program file with rules")
	datalogCmd.Flags().BoolVar(&datalogStats, "stats", false, "Print per-predicate fact counts")
	datalogCmd.MarkFlagRequired("facts")
}

func runDatalog(cmd *cobra.Command, args []string) error {
	// Reuse the engine package's clause parser to read the facts file.
	loader := engine.New(engine.DefaultConfig())
	if _, err := loader.LoadFactsFile(datalogFactsPath); err != nil {
		return err
	}

	var facts []datalog.Fact
	for _, f := range loader.AllFacts() {
		facts = append(facts, datalog.Fact{Predicate: f.Predicate, Args: f.Args})
	}

	eng := datalog.New(datalog.Config{
		FactLimit:    cfg.Datalog.FactLimit,
		QueryTimeout: cfg.DatalogTimeout(),
		AutoEval:     true,
	})

	decls, err := datalog.DeclareFromFacts(facts)
	if err != nil {
		return fmt.Errorf("synthesize declarations: %w", err)
	}
	if err := eng.LoadProgram(decls); err != nil {
		return err
	}

	if datalogProgramPath != "" {
		src, err := os.ReadFile(datalogProgramPath)
		if err != nil {
			return fmt.Errorf("read program %s: %w", datalogProgramPath, err)
		}
		if err := eng.LoadProgram(string(src)); err != nil {
			return err
		}
	}

	if err := eng.AddFacts(facts); err != nil {
		return err
	}
	logger.Debug("datalog store ready", zap.Int("facts", len(facts)))

	if datalogStats {
		stats := eng.GetStats()
		preds := make([]string, 0, len(stats.PredicateCounts))
		for p := range stats.PredicateCounts {
			preds = append(preds, p)
		}
		sort.Strings(preds)
		fmt.Printf("%d facts total\n", stats.TotalFacts)
		for _, p := range preds {
			fmt.Printf("  %-30s %d\n", p, stats.PredicateCounts[p])
		}
	}

	if len(args) == 0 {
		return nil
	}

	result, err := eng.Query(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(result.Bindings) == 0 {
		fmt.Println("false.")
		return nil
	}
	for _, row := range result.Bindings {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) == 0 {
			fmt.Println("true.")
			continue
		}
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s = %s", k, row[k]))
		}
		fmt.Println(strings.Join(parts, ", "))
	}
	return nil
}
