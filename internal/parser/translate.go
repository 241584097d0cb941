package parser

import (
	"fmt"
	"strings"

	"clausify/internal/lexicon"
	"clausify/internal/review"
)

// Stats counts what happened during one translation run.
type Stats struct {
	Sentences    int
	Matched      int
	Fallback     int
	UnknownWords int
}

// Translator converts documents to Prolog clauses using the lexicon's
// sentence patterns. Patterns are compiled once per translator; call
// ReloadPatterns after the lexicon changes.
type Translator struct {
	lex      *lexicon.DB
	log      *review.Log
	resolver *PronounResolver
	compiled []compiledPattern

	// FactsOnly suppresses the provenance comments in the output.
	FactsOnly bool
}

type compiledPattern struct {
	pattern lexicon.Pattern
	tokens  []Token
}

// NewTranslator builds a translator. A nil review log discards the trail.
func NewTranslator(lex *lexicon.DB, log *review.Log) *Translator {
	if log == nil {
		log = review.Discard()
	}
	t := &Translator{
		lex:      lex,
		log:      log,
		resolver: NewPronounResolver(lex),
	}
	t.ReloadPatterns()
	return t
}

// ReloadPatterns recompiles the enabled pattern list from the lexicon.
// Patterns that fail to compile are skipped and recorded in the review log.
func (t *Translator) ReloadPatterns() {
	patterns := t.lex.SortedPatterns()
	t.compiled = t.compiled[:0]
	for _, p := range patterns {
		tokens, err := Compile(p.Expr)
		if err != nil {
			_ = t.log.Record(review.Error, review.CategoryGeneral,
				fmt.Sprintf("pattern %q does not compile: %v", p.Name, err), p.Name)
			continue
		}
		t.compiled = append(t.compiled, compiledPattern{pattern: p, tokens: tokens})
	}
}

// SentenceResult is the translation of a single sentence.
type SentenceResult struct {
	Sentence    string
	PatternName string // empty on fallback
	Output      string
	Matched     bool
}

// TranslateDocument splits the input into sentences and translates each.
// Pronoun state is fresh per document.
func (t *Translator) TranslateDocument(input string) ([]SentenceResult, Stats) {
	t.resolver.Reset()

	var stats Stats
	sentences := SplitSentences(input)
	results := make([]SentenceResult, 0, len(sentences))
	for _, sentence := range sentences {
		res := t.translateSentence(sentence, &stats)
		results = append(results, res)
		stats.Sentences++
	}
	return results, stats
}

// Render joins sentence results into the final Prolog text.
func Render(results []SentenceResult, factsOnly bool) string {
	var b strings.Builder
	for i, res := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		if !factsOnly {
			if res.Matched {
				fmt.Fprintf(&b, "%% %s: %s\n", res.PatternName, res.Sentence)
			}
		}
		b.WriteString(res.Output)
		b.WriteString("\n")
	}
	return b.String()
}

func (t *Translator) translateSentence(sentence string, stats *Stats) SentenceResult {
	words := Tokenize(sentence)
	words = t.resolver.ResolveSentence(words)

	for _, cp := range t.compiled {
		captures, ok := Match(words, cp.tokens, t.lex)
		if !ok {
			continue
		}
		stats.Matched++
		output := ApplyTemplate(captures, cp.pattern.Template)
		if !strings.HasSuffix(strings.TrimSpace(output), ".") {
			output = strings.TrimSpace(output) + "."
		}
		return SentenceResult{
			Sentence:    sentence,
			PatternName: cp.pattern.Name,
			Output:      output,
			Matched:     true,
		}
	}

	stats.Fallback++
	_ = t.log.UnparsedSentence(sentence)
	return SentenceResult{
		Sentence: sentence,
		Output:   t.fallbackClause(sentence, words, stats),
	}
}

// fallbackClause emits the normalized word-type shape of the sentence as a
// quoted prolog_fact, with a provenance comment.
func (t *Translator) fallbackClause(sentence string, words []string, stats *Stats) string {
	normalized := t.Normalize(words, sentence, stats)
	escaped := strings.ReplaceAll(normalized, "'", "\\'")
	if t.FactsOnly {
		return fmt.Sprintf("prolog_fact('%s').", escaped)
	}
	return fmt.Sprintf("%% FROM: %s\nprolog_fact('%s').", normalized, escaped)
}

// Normalize maps each word to its lowercased word type name; words the
// lexicon does not know render as "unknown" and land in the review log.
func (t *Translator) Normalize(words []string, sentence string, stats *Stats) string {
	normalized := make([]string, 0, len(words))
	for _, word := range words {
		entries := t.lex.EntriesFor(word)
		if len(entries) == 0 {
			if stats != nil {
				stats.UnknownWords++
			}
			_ = t.log.UnknownWord(word, sentence)
			normalized = append(normalized, "unknown")
			continue
		}
		normalized = append(normalized, strings.ToLower(entries[0].Type.String()))
	}
	return strings.Join(normalized, " ")
}
