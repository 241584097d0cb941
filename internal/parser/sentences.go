// Package parser turns English prose into Prolog clauses. The pipeline is
// sentence splitting, pronoun resolution, pattern matching against the
// lexicon's sentence patterns, and template expansion. Sentences nothing
// matches fall back to a quoted prolog_fact clause over the normalized form.
package parser

import (
	"strings"
	"unicode"
)

// SplitSentences splits prose into lowercased sentences. A period ends a
// sentence when it is followed by end of input, a newline, or whitespace and
// then an uppercase letter; this keeps abbreviations like "e.g. x" intact.
// Trailing text without a terminator still counts as a sentence.
func SplitSentences(input string) []string {
	var sentences []string
	var current strings.Builder
	runes := []rune(input)

	flush := func() {
		trimmed := strings.TrimSpace(current.String())
		if trimmed != "" {
			sentences = append(sentences, strings.ToLower(trimmed))
		}
		current.Reset()
	}

	for i, ch := range runes {
		current.WriteRune(ch)
		if ch != '.' {
			continue
		}

		end := false
		if i+1 >= len(runes) {
			end = true
		} else {
			switch next := runes[i+1]; {
			case next == '\n' || next == '\r':
				end = true
			case next == ' ':
				j := i + 1
				for j < len(runes) && unicode.IsSpace(runes[j]) {
					j++
				}
				end = j < len(runes) && unicode.IsUpper(runes[j])
			}
		}
		if end {
			flush()
		}
	}
	flush()

	return sentences
}

// Tokenize splits a sentence into words, dropping the trailing period and
// empty tokens from doubled spaces.
func Tokenize(sentence string) []string {
	sentence = strings.TrimSuffix(strings.TrimSpace(sentence), ".")
	fields := strings.Fields(sentence)
	return fields
}
