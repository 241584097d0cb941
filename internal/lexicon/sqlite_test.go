package lexicon

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteExportLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := seedDB(t)
	if err := src.AddPattern(Pattern{Name: "isa", Expr: "<Noun> is <Noun>", Template: "isa($1, $2)", Priority: 7, Enabled: true}); err != nil {
		t.Fatal(err)
	}
	if err := src.AddPattern(Pattern{Name: "off", Expr: "<Noun>", Template: "x($1)", Enabled: false}); err != nil {
		t.Fatal(err)
	}

	store, err := OpenSQLite(filepath.Join(t.TempDir(), "lexicon.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer store.Close()

	if err := store.Export(ctx, src); err != nil {
		t.Fatalf("Export: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.WordCount() != src.WordCount() {
		t.Errorf("word count = %d, want %d", loaded.WordCount(), src.WordCount())
	}
	if loaded.PatternCount() != 2 {
		t.Errorf("pattern count = %d, want 2", loaded.PatternCount())
	}
	if !loaded.HasType("bears", Noun) || !loaded.HasType("ran", Verb) {
		t.Error("forms lost in round trip")
	}

	p, ok := loaded.PatternByName("isa")
	if !ok {
		t.Fatal("pattern isa missing after round trip")
	}
	if p.Priority != 7 || !p.Enabled {
		t.Errorf("pattern fields lost: %+v", p)
	}
	if off, _ := loaded.PatternByName("off"); off.Enabled {
		t.Error("disabled flag not preserved")
	}
}

func TestSQLiteExportReplaces(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "lexicon.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer store.Close()

	if err := store.Export(ctx, seedDB(t)); err != nil {
		t.Fatalf("first export: %v", err)
	}

	fresh := New()
	if err := fresh.AddWord(WordEntry{Lemma: "zebra", Type: Noun}); err != nil {
		t.Fatal(err)
	}
	if err := store.Export(ctx, fresh); err != nil {
		t.Fatalf("second export: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.WordCount() != 1 || !loaded.Known("zebra") {
		t.Errorf("second export did not replace: count=%d", loaded.WordCount())
	}
	if loaded.Known("bear") {
		t.Error("stale rows survived replacement")
	}
}
