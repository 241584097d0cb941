package lexicon

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/renameio/v2"
)

// DB holds the full lexicon plus the derived form index. The index is never
// serialized; it is rebuilt after every load and mutation.
type DB struct {
	mu       sync.RWMutex
	words    []WordEntry
	patterns []Pattern

	// formToLemma maps every surface form (and lemma) to its lemma.
	// lemmaEntries maps a lemma to all entries sharing it.
	formToLemma  map[string]string
	lemmaEntries map[string][]WordEntry
}

// snapshot is the serialized shape of a DB, shared by JSON and gob.
type snapshot struct {
	Words    []WordEntry `json:"words"`
	Patterns []Pattern   `json:"patterns"`
}

// New returns an empty lexicon.
func New() *DB {
	db := &DB{}
	db.rebuildIndexLocked()
	return db
}

// Open loads a lexicon from path. The format is keyed by extension: .json for
// pretty-printed JSON, .gob for the binary snapshot. A missing file yields an
// empty lexicon that is immediately saved so the path exists afterwards.
func Open(path string) (*DB, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		db := New()
		if err := db.Save(path); err != nil {
			return nil, fmt.Errorf("create empty lexicon: %w", err)
		}
		return db, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}

	var snap snapshot
	switch ext := filepath.Ext(path); ext {
	case ".gob":
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
			return nil, fmt.Errorf("decode lexicon %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decode lexicon %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported lexicon format %q (want .json or .gob)", ext)
	}

	db := &DB{words: snap.Words, patterns: snap.Patterns}
	db.rebuildIndexLocked()
	return db, nil
}

// Save writes the lexicon to path, format keyed by extension as in Open.
// The write is atomic: a rename over the target, never a partial file.
func (db *DB) Save(path string) error {
	db.mu.RLock()
	snap := snapshot{Words: db.words, Patterns: db.patterns}
	db.mu.RUnlock()

	var data []byte
	switch ext := filepath.Ext(path); ext {
	case ".gob":
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
			return fmt.Errorf("encode lexicon: %w", err)
		}
		data = buf.Bytes()
	case ".json":
		var err error
		data, err = json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("encode lexicon: %w", err)
		}
	default:
		return fmt.Errorf("unsupported lexicon format %q (want .json or .gob)", ext)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create lexicon dir: %w", err)
		}
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write lexicon %s: %w", path, err)
	}
	return nil
}

func (db *DB) rebuildIndexLocked() {
	db.formToLemma = make(map[string]string, len(db.words)*4)
	db.lemmaEntries = make(map[string][]WordEntry, len(db.words))

	for _, entry := range db.words {
		lemma := strings.ToLower(entry.Lemma)
		db.formToLemma[lemma] = lemma
		db.lemmaEntries[lemma] = append(db.lemmaEntries[lemma], entry)
		for _, form := range entry.Forms {
			db.formToLemma[strings.ToLower(form)] = lemma
		}
	}
}

// EntriesFor returns every entry whose lemma or forms include the given
// surface form. Lookup is case-insensitive. A nil result means the word is
// not in the lexicon.
func (db *DB) EntriesFor(form string) []WordEntry {
	db.mu.RLock()
	defer db.mu.RUnlock()

	lemma, ok := db.formToLemma[strings.ToLower(form)]
	if !ok {
		return nil
	}
	return db.lemmaEntries[lemma]
}

// HasType reports whether any entry for the form has the given part of speech.
func (db *DB) HasType(form string, t WordType) bool {
	for _, entry := range db.EntriesFor(form) {
		if entry.Type == t {
			return true
		}
	}
	return false
}

// Known reports whether the form appears anywhere in the lexicon.
func (db *DB) Known(form string) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.formToLemma[strings.ToLower(form)]
	return ok
}

// SortedPatterns returns the enabled patterns, highest priority first.
// Patterns with equal priority keep their stored order.
func (db *DB) SortedPatterns() []Pattern {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]Pattern, 0, len(db.patterns))
	for _, p := range db.patterns {
		if p.Enabled {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// WordCount returns the number of word entries.
func (db *DB) WordCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.words)
}

// PatternCount returns the number of stored patterns, enabled or not.
func (db *DB) PatternCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.patterns)
}

// ReplaceFrom swaps this lexicon's contents for other's. Used by the watcher
// to apply a reloaded snapshot without invalidating existing references.
func (db *DB) ReplaceFrom(other *DB) {
	other.mu.RLock()
	words := make([]WordEntry, len(other.words))
	copy(words, other.words)
	patterns := make([]Pattern, len(other.patterns))
	copy(patterns, other.patterns)
	other.mu.RUnlock()

	db.mu.Lock()
	defer db.mu.Unlock()
	db.words = words
	db.patterns = patterns
	db.rebuildIndexLocked()
}
