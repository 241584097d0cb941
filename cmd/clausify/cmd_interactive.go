package main

import (
	"context"
	"fmt"
	"os"

	"clausify/cmd/clausify/ui"
	"clausify/internal/lexicon"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var interactiveWatch bool

// interactiveCmd starts the two-pane live translator.
var interactiveCmd = &cobra.Command{
	Use:   "interactive [file]",
	Short: "Interactive translator with live Prolog output",
	Long: `Opens a terminal UI: input text on the left, translated Prolog on the
right, refreshed on every keystroke. An optional file argument preloads
the input pane.

With --watch the lexicon file is watched and hot-reloaded, so pattern
edits from another terminal show up immediately.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInteractive,
}

func init() {
	interactiveCmd.Flags().BoolVar(&interactiveWatch, "watch", false, "Hot-reload the lexicon on file change")
}

func runInteractive(cmd *cobra.Command, args []string) error {
	db, err := openLexicon()
	if err != nil {
		return err
	}
	reviewLog, err := openReviewLog()
	if err != nil {
		return err
	}
	defer reviewLog.Close()

	initial := ""
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		initial = string(data)
	}

	if interactiveWatch {
		watcher, err := lexicon.NewWatcher(db, cfg.Lexicon, logger, func(*lexicon.DB) {
			logger.Info("lexicon changed, patterns reloaded")
		})
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	model := ui.New(db, reviewLog, initial)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("interactive translator: %w", err)
	}
	logger.Debug("interactive session ended", zap.String("lexicon", cfg.Lexicon))
	return nil
}
