// Package lexicon stores the vocabulary and sentence patterns that drive
// translation. A lexicon maps surface forms to lemma entries (one entry per
// part of speech) and holds the prioritized pattern list used by the matcher.
package lexicon

import "fmt"

// WordType is the part of speech of a word entry.
type WordType int

const (
	Noun WordType = iota
	Verb
	Adjective
	Adverb
	Pronoun
	Preposition
	Conjunction
	Interjection
	Determiner
)

var wordTypeNames = map[WordType]string{
	Noun:         "Noun",
	Verb:         "Verb",
	Adjective:    "Adjective",
	Adverb:       "Adverb",
	Pronoun:      "Pronoun",
	Preposition:  "Preposition",
	Conjunction:  "Conjunction",
	Interjection: "Interjection",
	Determiner:   "Determiner",
}

var wordTypesByName = func() map[string]WordType {
	m := make(map[string]WordType, len(wordTypeNames))
	for t, name := range wordTypeNames {
		m[name] = t
	}
	return m
}()

// String returns the canonical name ("Noun", "Verb", ...).
func (t WordType) String() string {
	if name, ok := wordTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("WordType(%d)", int(t))
}

// ParseWordType resolves a canonical word type name.
func ParseWordType(name string) (WordType, error) {
	if t, ok := wordTypesByName[name]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown word type %q", name)
}

// MarshalText implements encoding.TextMarshaler so JSON snapshots carry
// readable type names. Gob snapshots encode the underlying int.
func (t WordType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *WordType) UnmarshalText(data []byte) error {
	parsed, err := ParseWordType(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// WordEntry is a single vocabulary record. The same lemma may appear in
// several entries, one per part of speech ("run" as Noun and as Verb).
type WordEntry struct {
	Lemma string   `json:"lemma"`
	Type  WordType `json:"word_type"`
	Forms []string `json:"forms"`
}

// Pattern is a sentence pattern: Expr is matched against tokenized sentences
// and Template receives the captures as $1..$n. Higher priority patterns are
// tried first; disabled patterns are skipped entirely.
type Pattern struct {
	Name     string `json:"name"`
	Expr     string `json:"pattern"`
	Template string `json:"template"`
	Priority int    `json:"priority"`
	Enabled  bool   `json:"enabled"`
}
