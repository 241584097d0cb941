package parser

import (
	"strconv"
	"strings"

	"clausify/internal/lexicon"
)

// Capture is one captured word (or greedy run) from a successful match.
// Capture indexes are 1-based and correspond to $1..$n in templates.
type Capture struct {
	WordIndex int
	Text      string
	Type      lexicon.WordType
	Greedy    bool
}

// Match tries the compiled pattern against the sentence words. On success it
// returns the ordered captures: one per type token and greedy run, in match
// order. Literals and wildcards consume words without capturing.
//
// Words absent from the lexicon satisfy a type token that accepts Noun; this
// is the proper-noun assumption, names are rarely in the dictionary.
func Match(words []string, tokens []Token, lex *lexicon.DB) ([]Capture, bool) {
	var captures []Capture
	if !backtrack(words, 0, tokens, 0, &captures, lex) {
		return nil, false
	}
	return captures, true
}

func backtrack(words []string, wi int, tokens []Token, ti int, captures *[]Capture, lex *lexicon.DB) bool {
	if ti >= len(tokens) {
		return wi == len(words)
	}

	if wi >= len(words) {
		// Only a tail of optionals can absorb an exhausted sentence.
		for _, tok := range tokens[ti:] {
			if tok.Kind != KindOptional {
				return false
			}
		}
		return true
	}

	tok := tokens[ti]
	switch tok.Kind {
	case KindOptional:
		if matchesWord(words[wi], *tok.Inner, lex) {
			pushed := false
			if tok.Inner.Kind == KindType {
				*captures = append(*captures, Capture{
					WordIndex: wi,
					Text:      words[wi],
					Type:      captureType(words[wi], tok.Inner.Types, lex),
				})
				pushed = true
			}
			if backtrack(words, wi+1, tokens, ti+1, captures, lex) {
				return true
			}
			if pushed {
				*captures = (*captures)[:len(*captures)-1]
			}
		}
		return backtrack(words, wi, tokens, ti+1, captures, lex)

	case KindWildcard:
		return backtrack(words, wi+1, tokens, ti+1, captures, lex)

	case KindGreedy:
		end := wi
		for end < len(words) && matchesWord(words[end], *tok.Inner, lex) {
			end++
		}
		for tryEnd := end; tryEnd > wi; tryEnd-- {
			run := strings.Join(words[wi:tryEnd], "_")
			*captures = append(*captures, Capture{WordIndex: wi, Text: run, Greedy: true})
			if backtrack(words, tryEnd, tokens, ti+1, captures, lex) {
				return true
			}
			*captures = (*captures)[:len(*captures)-1]
		}
		return false

	default:
		if !matchesWord(words[wi], tok, lex) {
			return false
		}
		if tok.Kind == KindType {
			*captures = append(*captures, Capture{
				WordIndex: wi,
				Text:      words[wi],
				Type:      captureType(words[wi], tok.Types, lex),
			})
		}
		return backtrack(words, wi+1, tokens, ti+1, captures, lex)
	}
}

func matchesWord(word string, tok Token, lex *lexicon.DB) bool {
	switch tok.Kind {
	case KindLiteral:
		return strings.EqualFold(word, tok.Literal)
	case KindType:
		entries := lex.EntriesFor(word)
		if entries == nil {
			for _, t := range tok.Types {
				if t == lexicon.Noun {
					return true
				}
			}
			return false
		}
		for _, entry := range entries {
			for _, t := range tok.Types {
				if entry.Type == t {
					return true
				}
			}
		}
		return false
	case KindWildcard:
		return true
	case KindOptional, KindGreedy:
		return matchesWord(word, *tok.Inner, lex)
	default:
		return false
	}
}

// captureType picks the recorded part of speech for a captured word: the
// first allowed type the lexicon confirms, else the first allowed type.
func captureType(word string, allowed []lexicon.WordType, lex *lexicon.DB) lexicon.WordType {
	for _, t := range allowed {
		if lex.HasType(word, t) {
			return t
		}
	}
	return allowed[0]
}

// ApplyTemplate substitutes $1..$n in the template with the captures.
func ApplyTemplate(captures []Capture, template string) string {
	result := template
	// Highest index first so $1 does not clobber the prefix of $10.
	for i := len(captures); i >= 1; i-- {
		placeholder := "$" + strconv.Itoa(i)
		result = strings.ReplaceAll(result, placeholder, captures[i-1].Text)
	}
	return result
}
