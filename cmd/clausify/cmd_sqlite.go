package main

import (
	"fmt"

	"clausify/internal/lexicon"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sqliteCmd mirrors the lexicon into SQLite for SQL tooling.
var sqliteCmd = &cobra.Command{
	Use:   "sqlite",
	Short: "Mirror the lexicon to and from a SQLite database",
}

var sqliteExportCmd = &cobra.Command{
	Use:   "export [db-file]",
	Short: "Replace the SQLite mirror's contents with the current lexicon",
	Args:  cobra.ExactArgs(1),
	RunE:  runSQLiteExport,
}

var sqliteLoadCmd = &cobra.Command{
	Use:   "load [db-file]",
	Short: "Load the SQLite mirror back into the lexicon file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSQLiteLoad,
}

func init() {
	sqliteCmd.AddCommand(sqliteExportCmd)
	sqliteCmd.AddCommand(sqliteLoadCmd)
}

func runSQLiteExport(cmd *cobra.Command, args []string) error {
	db, err := openLexicon()
	if err != nil {
		return err
	}

	store, err := lexicon.OpenSQLite(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Export(cmd.Context(), db); err != nil {
		return err
	}
	logger.Info("lexicon exported to sqlite",
		zap.String("db", args[0]),
		zap.Int("words", db.WordCount()),
		zap.Int("patterns", db.PatternCount()))
	fmt.Printf("Exported %d words and %d patterns to %s\n",
		db.WordCount(), db.PatternCount(), args[0])
	return nil
}

func runSQLiteLoad(cmd *cobra.Command, args []string) error {
	store, err := lexicon.OpenSQLite(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	db, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}
	if err := db.Save(cfg.Lexicon); err != nil {
		return err
	}
	fmt.Printf("Loaded %d words and %d patterns into %s\n",
		db.WordCount(), db.PatternCount(), cfg.Lexicon)
	return nil
}
