package lexicon

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultPageSize is the browse page size when the caller does not choose one.
const DefaultPageSize = 50

// AddWord inserts a word entry. If an entry with the same lemma and part of
// speech already exists, the new forms are merged into it instead.
func (db *DB) AddWord(entry WordEntry) error {
	entry.Lemma = strings.ToLower(strings.TrimSpace(entry.Lemma))
	if entry.Lemma == "" {
		return fmt.Errorf("word lemma must not be empty")
	}
	for i, form := range entry.Forms {
		entry.Forms[i] = strings.ToLower(strings.TrimSpace(form))
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.words {
		if db.words[i].Lemma == entry.Lemma && db.words[i].Type == entry.Type {
			db.words[i].Forms = mergeForms(db.words[i].Forms, entry.Forms)
			db.rebuildIndexLocked()
			return nil
		}
	}

	db.words = append(db.words, entry)
	db.rebuildIndexLocked()
	return nil
}

// RemoveWord deletes every entry for the lemma, or only the entry with the
// given part of speech when exact is true.
func (db *DB) RemoveWord(lemma string, t WordType, exact bool) (int, error) {
	lemma = strings.ToLower(strings.TrimSpace(lemma))
	if lemma == "" {
		return 0, fmt.Errorf("word lemma must not be empty")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	kept := db.words[:0]
	removed := 0
	for _, entry := range db.words {
		if entry.Lemma == lemma && (!exact || entry.Type == t) {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	db.words = kept
	if removed > 0 {
		db.rebuildIndexLocked()
	}
	return removed, nil
}

// SearchWords returns the entries whose lemma or any form contains the query
// substring, case-insensitive. An empty query matches everything.
func (db *DB) SearchWords(query string) []WordEntry {
	query = strings.ToLower(strings.TrimSpace(query))

	db.mu.RLock()
	defer db.mu.RUnlock()

	if query == "" {
		out := make([]WordEntry, len(db.words))
		copy(out, db.words)
		return out
	}

	var out []WordEntry
	for _, entry := range db.words {
		if strings.Contains(entry.Lemma, query) {
			out = append(out, entry)
			continue
		}
		for _, form := range entry.Forms {
			if strings.Contains(form, query) {
				out = append(out, entry)
				break
			}
		}
	}
	return out
}

// WordPage is one page of a browse listing.
type WordPage struct {
	Entries    []WordEntry
	Page       int
	PageCount  int
	TotalWords int
}

// BrowseWords returns one page of entries matching the query, sorted by
// lemma then part of speech. Page numbers are zero-based and clamped.
func (db *DB) BrowseWords(query string, page, pageSize int) WordPage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	matched := db.SearchWords(query)
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Lemma != matched[j].Lemma {
			return matched[i].Lemma < matched[j].Lemma
		}
		return matched[i].Type < matched[j].Type
	})

	pageCount := (len(matched) + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= pageCount {
		page = pageCount - 1
	}

	start := page * pageSize
	end := start + pageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return WordPage{
		Entries:    matched[start:end],
		Page:       page,
		PageCount:  pageCount,
		TotalWords: len(matched),
	}
}

func mergeForms(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, f := range existing {
		seen[f] = true
	}
	for _, f := range extra {
		if f != "" && !seen[f] {
			existing = append(existing, f)
			seen[f] = true
		}
	}
	return existing
}
