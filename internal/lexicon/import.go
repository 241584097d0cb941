package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// posTags maps UniMorph part-of-speech tags to word types. Tags outside this
// map (pronouns, particles, "Other") are skipped during import.
var posTags = map[string]WordType{
	"V":   Verb,
	"N":   Noun,
	"ADJ": Adjective,
	"ADV": Adverb,
}

// ImportStats summarizes a TSV import run.
type ImportStats struct {
	Lines     int
	Imported  int
	Skipped   int
	Malformed int
}

// ImportTSV reads UniMorph-style TSV (lemma, form, features separated by
// tabs) and merges the rows into the lexicon. Malformed lines are skipped
// and counted, never fatal.
func (db *DB) ImportTSV(r io.Reader) (ImportStats, error) {
	var stats ImportStats

	// Collect forms per (lemma, type) first so the index is rebuilt once.
	type key struct {
		lemma string
		t     WordType
	}
	merged := make(map[key][]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		stats.Lines++

		parts := strings.Split(line, "\t")
		if len(parts) != 3 {
			stats.Malformed++
			continue
		}
		lemma, form, feats := parts[0], parts[1], parts[2]

		if !validLemma(lemma) {
			stats.Skipped++
			continue
		}

		pos := feats
		if idx := strings.IndexByte(feats, ';'); idx >= 0 {
			pos = feats[:idx]
		}
		t, ok := posTags[pos]
		if !ok {
			stats.Skipped++
			continue
		}

		k := key{lemma: strings.ToLower(lemma), t: t}
		form = strings.ToLower(strings.TrimSpace(form))
		// Forms pass the same shape filter as lemmas so dictionary noise
		// never enters the form index.
		if form != "" && form != k.lemma && validLemma(form) {
			merged[k] = append(merged[k], form)
		} else if _, exists := merged[k]; !exists {
			merged[k] = nil
		}
		stats.Imported++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read tsv: %w", err)
	}

	db.mu.Lock()
	existing := make(map[key]int, len(db.words))
	for i, entry := range db.words {
		existing[key{lemma: entry.Lemma, t: entry.Type}] = i
	}
	for k, forms := range merged {
		if i, ok := existing[k]; ok {
			db.words[i].Forms = mergeForms(db.words[i].Forms, forms)
			continue
		}
		db.words = append(db.words, WordEntry{Lemma: k.lemma, Type: k.t, Forms: dedupeForms(forms)})
	}
	db.rebuildIndexLocked()
	db.mu.Unlock()

	return stats, nil
}

// ImportTSVFile is ImportTSV over a file path.
func (db *DB) ImportTSVFile(path string) (ImportStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportStats{}, fmt.Errorf("open tsv %s: %w", path, err)
	}
	defer f.Close()
	return db.ImportTSV(f)
}

// validLemma filters dictionary noise: dialectal forms with a leading
// apostrophe, proper nouns, abbreviations, and multi-hyphen compounds.
func validLemma(lemma string) bool {
	if len(lemma) < 2 {
		return false
	}
	if strings.HasPrefix(lemma, "'") {
		return false
	}
	first := rune(lemma[0])
	if unicode.IsUpper(first) {
		return false
	}
	hyphens, apostrophes := 0, 0
	for _, r := range lemma {
		switch {
		case r == '-':
			hyphens++
		case r == '\'':
			apostrophes++
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return hyphens <= 1 && apostrophes <= 1
}

func dedupeForms(forms []string) []string {
	return mergeForms(nil, forms)
}
