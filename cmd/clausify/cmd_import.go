package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importTSVPath string

// importCmd bulk-loads vocabulary from UniMorph TSV.
var importCmd = &cobra.Command{
	Use:   "import --tsv eng.tsv",
	Short: "Import vocabulary from a UniMorph TSV dump",
	Long: `Imports lemma/form/features rows from a UniMorph TSV file.

Only V, N, ADJ and ADV rows are imported; proper nouns, abbreviations and
dialectal lemmas are filtered out. Existing entries gain the new forms.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importTSVPath, "tsv", "", "UniMorph TSV file (required)")
	importCmd.MarkFlagRequired("tsv")
}

func runImport(cmd *cobra.Command, args []string) error {
	db, err := openLexicon()
	if err != nil {
		return err
	}

	stats, err := db.ImportTSVFile(importTSVPath)
	if err != nil {
		return err
	}
	if err := db.Save(cfg.Lexicon); err != nil {
		return err
	}

	logger.Info("tsv import complete",
		zap.String("path", importTSVPath),
		zap.Int("lines", stats.Lines),
		zap.Int("imported", stats.Imported),
		zap.Int("skipped", stats.Skipped),
		zap.Int("malformed", stats.Malformed))

	fmt.Printf("Imported %d rows (%d skipped, %d malformed) from %d lines\n",
		stats.Imported, stats.Skipped, stats.Malformed, stats.Lines)
	fmt.Printf("Lexicon now has %d words\n", db.WordCount())
	return nil
}
