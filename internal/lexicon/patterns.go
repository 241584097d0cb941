package lexicon

import (
	"fmt"
	"strings"
)

// AddPattern stores a sentence pattern. Names are unique; adding a pattern
// with an existing name replaces it. Expression syntax is validated by the
// parser package before patterns reach the store.
func (db *DB) AddPattern(p Pattern) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("pattern name must not be empty")
	}
	if strings.TrimSpace(p.Expr) == "" {
		return fmt.Errorf("pattern %q has an empty expression", p.Name)
	}
	if strings.TrimSpace(p.Template) == "" {
		return fmt.Errorf("pattern %q has an empty template", p.Name)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.patterns {
		if db.patterns[i].Name == p.Name {
			db.patterns[i] = p
			return nil
		}
	}
	db.patterns = append(db.patterns, p)
	return nil
}

// RemovePattern deletes the pattern with the given name.
func (db *DB) RemovePattern(name string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.patterns {
		if db.patterns[i].Name == name {
			db.patterns = append(db.patterns[:i], db.patterns[i+1:]...)
			return true
		}
	}
	return false
}

// SetPatternEnabled toggles a pattern without removing it.
func (db *DB) SetPatternEnabled(name string, enabled bool) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.patterns {
		if db.patterns[i].Name == name {
			db.patterns[i].Enabled = enabled
			return true
		}
	}
	return false
}

// Patterns returns a copy of all stored patterns in insertion order.
func (db *DB) Patterns() []Pattern {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]Pattern, len(db.patterns))
	copy(out, db.patterns)
	return out
}

// PatternByName returns the named pattern, if stored.
func (db *DB) PatternByName(name string) (Pattern, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, p := range db.patterns {
		if p.Name == name {
			return p, true
		}
	}
	return Pattern{}, false
}
