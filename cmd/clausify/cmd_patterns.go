package main

import (
	"fmt"
	"strings"

	"clausify/internal/lexicon"
	"clausify/internal/parser"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	patternExpr     string
	patternTemplate string
	patternPriority int
	patternDisabled bool
)

// patternsCmd manages sentence patterns.
var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Browse and edit sentence patterns",
}

var patternsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored patterns in priority order",
	RunE:  runPatternsList,
}

var patternsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add or replace a sentence pattern",
	Long: `Adds a pattern. The expression is validated before it is stored.

Pattern syntax (whitespace separated):
  word          literal
  <Noun|Verb>   word with one of these parts of speech
  [the]         optional token
  <Noun>+       one or more, captured joined by "_"
  *             any single word, not captured

Templates refer to captures as $1..$n.

Example:
  clausify patterns add isa \
    --expr "[<Determiner>] <Noun> is [a] [an] <Noun>" \
    --template "\$2(\$1)" --priority 10`,
	Args: cobra.ExactArgs(1),
	RunE: runPatternsAdd,
}

var patternsRemoveCmd = &cobra.Command{
	Use:   "rm [name]",
	Short: "Remove a pattern",
	Args:  cobra.ExactArgs(1),
	RunE:  runPatternsRemove,
}

var patternsTestCmd = &cobra.Command{
	Use:   "test [name] [sentence]",
	Short: "Try a stored pattern against a sentence",
	Args:  cobra.ExactArgs(2),
	RunE:  runPatternsTest,
}

func init() {
	patternsAddCmd.Flags().StringVar(&patternExpr, "expr", "", "Pattern expression (required)")
	patternsAddCmd.Flags().StringVar(&patternTemplate, "template", "", "Output template with $1..$n (required)")
	patternsAddCmd.Flags().IntVar(&patternPriority, "priority", 0, "Match priority, higher first")
	patternsAddCmd.Flags().BoolVar(&patternDisabled, "disabled", false, "Store the pattern disabled")
	patternsAddCmd.MarkFlagRequired("expr")
	patternsAddCmd.MarkFlagRequired("template")

	patternsCmd.AddCommand(patternsListCmd)
	patternsCmd.AddCommand(patternsAddCmd)
	patternsCmd.AddCommand(patternsRemoveCmd)
	patternsCmd.AddCommand(patternsTestCmd)
}

func runPatternsList(cmd *cobra.Command, args []string) error {
	db, err := openLexicon()
	if err != nil {
		return err
	}

	patterns := db.Patterns()
	if len(patterns) == 0 {
		fmt.Println("No patterns stored.")
		return nil
	}
	for _, p := range db.SortedPatterns() {
		fmt.Printf("%-20s p=%-4d %s  =>  %s\n", p.Name, p.Priority, p.Expr, p.Template)
	}
	disabled := 0
	for _, p := range patterns {
		if !p.Enabled {
			disabled++
			fmt.Printf("%-20s p=%-4d %s  =>  %s  (disabled)\n", p.Name, p.Priority, p.Expr, p.Template)
		}
	}
	fmt.Printf("\n%d patterns (%d disabled)\n", len(patterns), disabled)
	return nil
}

func runPatternsAdd(cmd *cobra.Command, args []string) error {
	db, err := openLexicon()
	if err != nil {
		return err
	}

	// Validate the expression before it lands in the store.
	if _, err := parser.Compile(patternExpr); err != nil {
		return fmt.Errorf("invalid pattern expression: %w", err)
	}

	p := lexicon.Pattern{
		Name:     args[0],
		Expr:     patternExpr,
		Template: patternTemplate,
		Priority: patternPriority,
		Enabled:  !patternDisabled,
	}
	if err := db.AddPattern(p); err != nil {
		return err
	}
	if err := db.Save(cfg.Lexicon); err != nil {
		return err
	}
	logger.Info("pattern stored", zap.String("name", p.Name), zap.Int("priority", p.Priority))
	fmt.Printf("Stored pattern %q\n", p.Name)
	return nil
}

func runPatternsRemove(cmd *cobra.Command, args []string) error {
	db, err := openLexicon()
	if err != nil {
		return err
	}
	if !db.RemovePattern(args[0]) {
		return fmt.Errorf("no pattern named %q", args[0])
	}
	if err := db.Save(cfg.Lexicon); err != nil {
		return err
	}
	fmt.Printf("Removed pattern %q\n", args[0])
	return nil
}

func runPatternsTest(cmd *cobra.Command, args []string) error {
	db, err := openLexicon()
	if err != nil {
		return err
	}

	p, ok := db.PatternByName(args[0])
	if !ok {
		return fmt.Errorf("no pattern named %q", args[0])
	}
	tokens, err := parser.Compile(p.Expr)
	if err != nil {
		return fmt.Errorf("pattern %q does not compile: %w", p.Name, err)
	}

	words := parser.Tokenize(strings.ToLower(args[1]))
	captures, ok := parser.Match(words, tokens, db)
	if !ok {
		fmt.Println("no match")
		return nil
	}
	for i, c := range captures {
		kind := c.Type.String()
		if c.Greedy {
			kind = "greedy"
		}
		fmt.Printf("$%d = %s (%s)\n", i+1, c.Text, kind)
	}
	fmt.Printf("=> %s\n", parser.ApplyTemplate(captures, p.Template))
	return nil
}
