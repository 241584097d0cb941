package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func seedDB(t *testing.T) *DB {
	t.Helper()
	db := New()
	entries := []WordEntry{
		{Lemma: "bear", Type: Noun, Forms: []string{"bears"}},
		{Lemma: "run", Type: Verb, Forms: []string{"runs", "ran"}},
		{Lemma: "run", Type: Noun, Forms: []string{"runs"}},
		{Lemma: "big", Type: Adjective},
	}
	for _, e := range entries {
		if err := db.AddWord(e); err != nil {
			t.Fatalf("AddWord(%v): %v", e, err)
		}
	}
	return db
}

func TestSaveOpenRoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".gob"} {
		t.Run(ext, func(t *testing.T) {
			db := seedDB(t)
			if err := db.AddPattern(Pattern{Name: "p1", Expr: "<Noun>", Template: "f($1)", Priority: 1, Enabled: true}); err != nil {
				t.Fatalf("AddPattern: %v", err)
			}

			path := filepath.Join(t.TempDir(), "lexicon"+ext)
			if err := db.Save(path); err != nil {
				t.Fatalf("Save: %v", err)
			}

			loaded, err := Open(path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if loaded.WordCount() != db.WordCount() {
				t.Errorf("word count = %d, want %d", loaded.WordCount(), db.WordCount())
			}
			if loaded.PatternCount() != 1 {
				t.Errorf("pattern count = %d, want 1", loaded.PatternCount())
			}
			if !loaded.HasType("bears", Noun) {
				t.Error("form index not rebuilt after load")
			}
		})
	}
}

func TestOpenMissingFileCreatesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.json")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if db.WordCount() != 0 {
		t.Errorf("word count = %d, want 0", db.WordCount())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("empty lexicon was not written: %v", err)
	}
}

func TestOpenUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.xml")
	if err := os.WriteFile(path, []byte("<words/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestEntriesForCoversLemmaAndForms(t *testing.T) {
	db := seedDB(t)

	for _, form := range []string{"bear", "bears", "Bears", "BEAR"} {
		if entries := db.EntriesFor(form); len(entries) != 1 {
			t.Errorf("EntriesFor(%q) = %d entries, want 1", form, len(entries))
		}
	}
	if entries := db.EntriesFor("runs"); len(entries) != 2 {
		t.Errorf("EntriesFor(runs) = %d entries, want both parts of speech", len(entries))
	}
	if db.EntriesFor("zebra") != nil {
		t.Error("EntriesFor(zebra) should be nil")
	}
}

func TestHasTypeAndKnown(t *testing.T) {
	db := seedDB(t)

	if !db.HasType("ran", Verb) {
		t.Error("ran should be a Verb form")
	}
	if db.HasType("ran", Noun) {
		t.Error("ran is not a Noun form")
	}
	if !db.Known("big") || db.Known("zebra") {
		t.Error("Known gives wrong answers")
	}
}

func TestAddWordMergesForms(t *testing.T) {
	db := seedDB(t)

	if err := db.AddWord(WordEntry{Lemma: "Bear", Type: Noun, Forms: []string{"bears", "bearish"}}); err != nil {
		t.Fatalf("AddWord: %v", err)
	}
	entries := db.EntriesFor("bear")
	if len(entries) != 1 {
		t.Fatalf("duplicate entry created: %d", len(entries))
	}
	want := []string{"bears", "bearish"}
	if diff := cmp.Diff(want, entries[0].Forms); diff != "" {
		t.Errorf("forms mismatch (-want +got):\n%s", diff)
	}
}

func TestAddWordRejectsEmptyLemma(t *testing.T) {
	db := New()
	if err := db.AddWord(WordEntry{Lemma: "   "}); err == nil {
		t.Fatal("expected error for empty lemma")
	}
}

func TestRemoveWord(t *testing.T) {
	db := seedDB(t)

	removed, err := db.RemoveWord("run", Verb, true)
	if err != nil {
		t.Fatalf("RemoveWord: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if db.HasType("run", Verb) {
		t.Error("verb entry survived exact removal")
	}
	if !db.HasType("run", Noun) {
		t.Error("noun entry was removed too")
	}

	removed, err = db.RemoveWord("run", Noun, false)
	if err != nil {
		t.Fatalf("RemoveWord: %v", err)
	}
	if removed != 1 || db.Known("run") {
		t.Errorf("lemma removal failed: removed=%d known=%v", removed, db.Known("run"))
	}
}

func TestSearchWords(t *testing.T) {
	db := seedDB(t)

	if got := len(db.SearchWords("ru")); got != 2 {
		t.Errorf("SearchWords(ru) = %d, want 2", got)
	}
	if got := len(db.SearchWords("ran")); got != 1 {
		t.Errorf("SearchWords(ran) by form = %d, want 1", got)
	}
	if got := len(db.SearchWords("")); got != db.WordCount() {
		t.Errorf("empty query = %d, want all %d", got, db.WordCount())
	}
	if got := len(db.SearchWords("zzz")); got != 0 {
		t.Errorf("SearchWords(zzz) = %d, want 0", got)
	}
}

func TestBrowseWordsPaging(t *testing.T) {
	db := New()
	for _, lemma := range []string{"delta", "alpha", "echo", "bravo", "charlie"} {
		if err := db.AddWord(WordEntry{Lemma: lemma, Type: Noun}); err != nil {
			t.Fatal(err)
		}
	}

	page := db.BrowseWords("", 0, 2)
	if page.PageCount != 3 || page.TotalWords != 5 {
		t.Fatalf("page meta = %+v", page)
	}
	if page.Entries[0].Lemma != "alpha" || page.Entries[1].Lemma != "bravo" {
		t.Errorf("page 0 not sorted: %v, %v", page.Entries[0].Lemma, page.Entries[1].Lemma)
	}

	last := db.BrowseWords("", 99, 2)
	if last.Page != 2 || len(last.Entries) != 1 || last.Entries[0].Lemma != "echo" {
		t.Errorf("clamped last page = %+v", last)
	}

	neg := db.BrowseWords("", -5, 2)
	if neg.Page != 0 {
		t.Errorf("negative page not clamped: %d", neg.Page)
	}
}

func TestSortedPatterns(t *testing.T) {
	db := New()
	patterns := []Pattern{
		{Name: "low", Expr: "a", Template: "x", Priority: 1, Enabled: true},
		{Name: "off", Expr: "a", Template: "x", Priority: 99, Enabled: false},
		{Name: "high", Expr: "a", Template: "x", Priority: 10, Enabled: true},
		{Name: "mid-a", Expr: "a", Template: "x", Priority: 5, Enabled: true},
		{Name: "mid-b", Expr: "a", Template: "x", Priority: 5, Enabled: true},
	}
	for _, p := range patterns {
		if err := db.AddPattern(p); err != nil {
			t.Fatal(err)
		}
	}

	got := db.SortedPatterns()
	names := make([]string, len(got))
	for i, p := range got {
		names[i] = p.Name
	}
	want := []string{"high", "mid-a", "mid-b", "low"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestAddPatternReplacesByName(t *testing.T) {
	db := New()
	if err := db.AddPattern(Pattern{Name: "p", Expr: "a", Template: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := db.AddPattern(Pattern{Name: "p", Expr: "b", Template: "y"}); err != nil {
		t.Fatal(err)
	}

	if db.PatternCount() != 1 {
		t.Fatalf("pattern count = %d, want 1", db.PatternCount())
	}
	p, ok := db.PatternByName("p")
	if !ok || p.Expr != "b" {
		t.Errorf("pattern not replaced: %+v", p)
	}
}

func TestRemoveAndTogglePattern(t *testing.T) {
	db := New()
	if err := db.AddPattern(Pattern{Name: "p", Expr: "a", Template: "x", Enabled: true}); err != nil {
		t.Fatal(err)
	}

	if !db.SetPatternEnabled("p", false) {
		t.Fatal("SetPatternEnabled returned false")
	}
	if got := db.SortedPatterns(); len(got) != 0 {
		t.Errorf("disabled pattern still listed: %v", got)
	}

	if !db.RemovePattern("p") {
		t.Fatal("RemovePattern returned false")
	}
	if db.RemovePattern("p") {
		t.Fatal("second removal should report false")
	}
}

func TestReplaceFrom(t *testing.T) {
	db := seedDB(t)
	fresh := New()
	if err := fresh.AddWord(WordEntry{Lemma: "zebra", Type: Noun}); err != nil {
		t.Fatal(err)
	}

	db.ReplaceFrom(fresh)
	if db.Known("bear") {
		t.Error("old words survived ReplaceFrom")
	}
	if !db.Known("zebra") {
		t.Error("new words missing after ReplaceFrom")
	}
}
