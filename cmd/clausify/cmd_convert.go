package main

import (
	"fmt"
	"os"
	"time"

	"clausify/internal/lexicon"

	"github.com/spf13/cobra"
)

// convertCmd converts a lexicon between the JSON and binary formats.
var convertCmd = &cobra.Command{
	Use:   "convert [in] [out]",
	Short: "Convert a lexicon between .json and .gob formats",
	Long: `Converts a lexicon database between the editable JSON format and the
binary snapshot that loads faster for large vocabularies.

Example:
  clausify convert lexicon.json lexicon.gob`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], args[1]

	start := time.Now()
	db, err := lexicon.Open(inPath)
	if err != nil {
		return err
	}
	loadTime := time.Since(start)
	fmt.Printf("Loaded %s in %v (%d words, %d patterns)\n",
		inPath, loadTime.Round(time.Millisecond), db.WordCount(), db.PatternCount())

	start = time.Now()
	if err := db.Save(outPath); err != nil {
		return err
	}
	fmt.Printf("Saved %s in %v\n", outPath, time.Since(start).Round(time.Millisecond))

	inInfo, err := os.Stat(inPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", inPath, err)
	}
	outInfo, err := os.Stat(outPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", outPath, err)
	}
	fmt.Printf("Size: %.2f MB -> %.2f MB (%.1f%%)\n",
		float64(inInfo.Size())/1e6, float64(outInfo.Size())/1e6,
		100*float64(outInfo.Size())/float64(inInfo.Size()))

	start = time.Now()
	if _, err := lexicon.Open(outPath); err != nil {
		return fmt.Errorf("verify %s: %w", outPath, err)
	}
	fmt.Printf("Reload check: %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}
