package lexicon

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.json")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	reloaded := make(chan *DB, 1)
	w, err := NewWatcher(db, path, nil, func(db *DB) {
		select {
		case reloaded <- db:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	other := New()
	if err := other.AddWord(WordEntry{Lemma: "zebra", Type: Noun}); err != nil {
		t.Fatal(err)
	}
	if err := other.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired")
	}

	if !db.Known("zebra") {
		t.Error("watched lexicon not replaced after save")
	}
	if w.ReloadCount() == 0 {
		t.Error("reload count not incremented")
	}
}

func TestWatcherStartIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.json")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	w, err := NewWatcher(db, path, nil, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	w.Stop()
	w.Stop()
}
