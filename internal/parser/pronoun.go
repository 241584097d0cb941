package parser

import (
	"strings"

	"clausify/internal/lexicon"
)

// pronounClass groups pronouns by how their antecedent is chosen.
type pronounClass int

const (
	singularSubject pronounClass = iota // he, she, it
	singularObject                      // him
	pluralSubject                       // they
	pluralObject                        // them
	possessive                          // his, her, their, its
	reflexive                           // himself, herself, themselves
)

// entity is a candidate antecedent seen earlier in the document.
type entity struct {
	word       string
	plural     bool
	properNoun bool // absent from the lexicon, likely a name
}

// PronounResolver substitutes pronouns with their most plausible antecedent
// using gender-free recency heuristics: singular pronouns bind to the most
// recent singular noun (names preferred), plural pronouns to the most recent
// plural, reflexives to the current sentence subject. Entity memory spans
// sentences within one document.
type PronounResolver struct {
	lex      *lexicon.DB
	entities []entity
}

// NewPronounResolver creates a resolver backed by the lexicon.
func NewPronounResolver(lex *lexicon.DB) *PronounResolver {
	return &PronounResolver{lex: lex}
}

// Reset drops all remembered entities; call between documents.
func (r *PronounResolver) Reset() {
	r.entities = r.entities[:0]
}

// ResolveSentence returns the words with pronouns replaced where an
// antecedent is known. Unresolvable pronouns pass through unchanged.
func (r *PronounResolver) ResolveSentence(words []string) []string {
	resolved := make([]string, 0, len(words))
	var subject string

	for _, word := range words {
		lower := strings.ToLower(word)

		if class, ok := classifyPronoun(lower); ok {
			if antecedent := r.resolve(class, subject); antecedent != "" {
				resolved = append(resolved, antecedent)
			} else {
				resolved = append(resolved, word)
			}
			continue
		}

		resolved = append(resolved, word)

		properNoun := !r.lex.Known(lower)
		if r.lex.HasType(lower, lexicon.Noun) || properNoun {
			if subject == "" {
				subject = word
			}
			r.entities = append(r.entities, entity{
				word:       word,
				plural:     pluralForm(lower),
				properNoun: properNoun,
			})
		}
	}

	return resolved
}

func classifyPronoun(word string) (pronounClass, bool) {
	switch word {
	case "he", "she", "it":
		return singularSubject, true
	case "him":
		return singularObject, true
	case "they":
		return pluralSubject, true
	case "them":
		return pluralObject, true
	case "his", "her", "hers", "their", "theirs", "its":
		return possessive, true
	case "himself", "herself", "itself", "themselves":
		return reflexive, true
	}
	return 0, false
}

func (r *PronounResolver) resolve(class pronounClass, subject string) string {
	switch class {
	case singularSubject, singularObject:
		return r.mostRecent(false, true)
	case pluralSubject, pluralObject:
		return r.mostRecent(true, false)
	case reflexive:
		return subject
	case possessive:
		if w := r.mostRecent(false, true); w != "" {
			return w
		}
		return r.mostRecent(true, false)
	}
	return ""
}

// mostRecent scans entities newest first. With preferProper set it first
// looks for a proper noun of the right number, then falls back to any noun
// of that number.
func (r *PronounResolver) mostRecent(plural, preferProper bool) string {
	for i := len(r.entities) - 1; i >= 0; i-- {
		e := r.entities[i]
		if e.plural != plural {
			continue
		}
		if !preferProper || e.properNoun {
			return e.word
		}
	}
	if preferProper {
		for i := len(r.entities) - 1; i >= 0; i-- {
			if r.entities[i].plural == plural {
				return r.entities[i].word
			}
		}
	}
	return ""
}

// sibilantExceptions are -s endings that are not plurals.
var sibilantExceptions = map[string]bool{
	"was": true, "is": true, "this": true, "class": true, "grass": true,
	"glass": true, "pass": true, "mass": true, "boss": true, "moss": true,
	"loss": true, "cross": true, "toss": true, "dress": true, "stress": true,
	"guess": true, "less": true, "bless": true, "chess": true, "press": true,
	"express": true, "process": true, "success": true, "access": true,
	"address": true,
}

func pluralForm(word string) bool {
	if !strings.HasSuffix(word, "s") {
		return false
	}
	return !sibilantExceptions[word]
}
