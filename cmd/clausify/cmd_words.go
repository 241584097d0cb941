package main

import (
	"fmt"
	"strings"

	"clausify/internal/lexicon"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	wordsPage     int
	wordsPageSize int
	wordsType     string
	wordsForms    []string
)

// wordsCmd manages the lexicon vocabulary.
var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Browse and edit the lexicon vocabulary",
}

var wordsListCmd = &cobra.Command{
	Use:   "list [search]",
	Short: "List word entries, optionally filtered, one page at a time",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWordsList,
}

var wordsAddCmd = &cobra.Command{
	Use:   "add [lemma]",
	Short: "Add a word entry (merges forms into an existing lemma/type pair)",
	Long: `Adds a vocabulary entry.

Example:
  clausify words add run --type Verb --form runs --form ran --form running`,
	Args: cobra.ExactArgs(1),
	RunE: runWordsAdd,
}

var wordsRemoveCmd = &cobra.Command{
	Use:   "rm [lemma]",
	Short: "Remove a lemma (all entries, or one part of speech with --type)",
	Args:  cobra.ExactArgs(1),
	RunE:  runWordsRemove,
}

func init() {
	wordsListCmd.Flags().IntVar(&wordsPage, "page", 0, "Page number (zero-based)")
	wordsListCmd.Flags().IntVar(&wordsPageSize, "page-size", lexicon.DefaultPageSize, "Entries per page")
	wordsAddCmd.Flags().StringVarP(&wordsType, "type", "t", "Noun", "Part of speech (Noun, Verb, Adjective, ...)")
	wordsAddCmd.Flags().StringArrayVar(&wordsForms, "form", nil, "Inflected form (repeatable)")
	wordsRemoveCmd.Flags().StringVarP(&wordsType, "type", "t", "", "Only remove this part of speech")

	wordsCmd.AddCommand(wordsListCmd)
	wordsCmd.AddCommand(wordsAddCmd)
	wordsCmd.AddCommand(wordsRemoveCmd)
}

func runWordsList(cmd *cobra.Command, args []string) error {
	db, err := openLexicon()
	if err != nil {
		return err
	}

	query := ""
	if len(args) == 1 {
		query = args[0]
	}

	page := db.BrowseWords(query, wordsPage, wordsPageSize)
	if page.TotalWords == 0 {
		fmt.Println("No matching words.")
		return nil
	}

	for _, entry := range page.Entries {
		forms := ""
		if len(entry.Forms) > 0 {
			forms = "  [" + strings.Join(entry.Forms, ", ") + "]"
		}
		fmt.Printf("%-24s %-12s%s\n", entry.Lemma, entry.Type, forms)
	}
	fmt.Printf("\nPage %d/%d, %d words total\n", page.Page+1, page.PageCount, page.TotalWords)
	return nil
}

func runWordsAdd(cmd *cobra.Command, args []string) error {
	db, err := openLexicon()
	if err != nil {
		return err
	}

	t, err := lexicon.ParseWordType(wordsType)
	if err != nil {
		return err
	}

	entry := lexicon.WordEntry{Lemma: args[0], Type: t, Forms: wordsForms}
	if err := db.AddWord(entry); err != nil {
		return err
	}
	if err := db.Save(cfg.Lexicon); err != nil {
		return err
	}

	logger.Info("word added", zap.String("lemma", args[0]), zap.String("type", t.String()))
	fmt.Printf("Added %s (%s)\n", args[0], t)
	return nil
}

func runWordsRemove(cmd *cobra.Command, args []string) error {
	db, err := openLexicon()
	if err != nil {
		return err
	}

	exact := wordsType != ""
	var t lexicon.WordType
	if exact {
		t, err = lexicon.ParseWordType(wordsType)
		if err != nil {
			return err
		}
	}

	removed, err := db.RemoveWord(args[0], t, exact)
	if err != nil {
		return err
	}
	if removed == 0 {
		fmt.Printf("No entries for %q\n", args[0])
		return nil
	}
	if err := db.Save(cfg.Lexicon); err != nil {
		return err
	}
	fmt.Printf("Removed %d entr%s for %q\n", removed, plural(removed, "y", "ies"), args[0])
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
