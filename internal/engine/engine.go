// Package engine evaluates Prolog-like queries over translated output.
// It understands ground facts, rules (head :- body), phrase patterns
// (name --> components), conjunction queries, and bidirectional fact
// matching: the clause bear(animal) also answers animal(X) with X = bear,
// because translated sentences often put the subject in predicate position.
package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Fact is a predicate applied to ground arguments (or, inside queries and
// rule bodies, to variables: tokens starting with an uppercase letter).
type Fact struct {
	Predicate string
	Args      []string
}

// String renders the fact in clause form.
func (f Fact) String() string {
	return fmt.Sprintf("%s(%s).", f.Predicate, strings.Join(f.Args, ", "))
}

// Rule is a Horn clause: Head holds when every body fact holds.
type Rule struct {
	Head Fact
	Body []Fact
}

// Phrase names an ordered list of unary predicates; phrase(name, X) queries
// enumerate the cartesian product of their facts.
type Phrase struct {
	Name       string
	Components []string
}

// Config bounds evaluation.
type Config struct {
	QueryTimeout time.Duration // applied when the caller's context has no deadline
	MaxResults   int           // 0 means unlimited
}

// DefaultConfig returns the evaluation defaults.
func DefaultConfig() Config {
	return Config{
		QueryTimeout: 5 * time.Second,
		MaxResults:   10000,
	}
}

// Engine holds the fact base, rules, and phrase patterns.
type Engine struct {
	config Config

	mu      sync.RWMutex
	facts   []Fact
	rules   []Rule
	phrases []Phrase
	// factIndex maps predicate to indexes into facts.
	factIndex map[string][]int
}

// New creates an empty engine.
func New(cfg Config) *Engine {
	return &Engine{
		config:    cfg,
		factIndex: make(map[string][]int),
	}
}

// LoadFacts parses clause lines from translated output, replacing the
// current fact base. Blank lines and %, //, # comments are skipped;
// unparseable lines are ignored, translation output is allowed to carry
// informal text.
func (e *Engine) LoadFacts(r io.Reader) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.facts = e.facts[:0]
	e.factIndex = make(map[string][]int)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	loaded := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || isComment(line) {
			continue
		}
		fact, ok := ParseFact(line)
		if !ok {
			continue
		}
		e.addFactLocked(fact)
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("read facts: %w", err)
	}
	return loaded, nil
}

// LoadFactsFile is LoadFacts over a path.
func (e *Engine) LoadFactsFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open facts %s: %w", path, err)
	}
	defer f.Close()
	return e.LoadFacts(f)
}

// AddFact appends one fact to the base.
func (e *Engine) AddFact(fact Fact) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addFactLocked(fact)
}

func (e *Engine) addFactLocked(fact Fact) {
	e.factIndex[fact.Predicate] = append(e.factIndex[fact.Predicate], len(e.facts))
	e.facts = append(e.facts, fact)
}

// LoadRules reads a rules file: one rule or phrase per line, # comments.
// Lines containing ":-" are rules, lines containing "-->" are phrases,
// anything else is rejected.
func (e *Engine) LoadRules(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.Contains(line, ":-"):
			if err := e.AddRule(line); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
		case strings.Contains(line, "-->"):
			if err := e.AddPhrase(line); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
		default:
			return fmt.Errorf("line %d: neither a rule (:-) nor a phrase (-->): %q", lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read rules: %w", err)
	}
	return nil
}

// LoadRulesFile is LoadRules over a path.
func (e *Engine) LoadRulesFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open rules %s: %w", path, err)
	}
	defer f.Close()
	return e.LoadRules(f)
}

// AddRule parses and stores "head :- body, body".
func (e *Engine) AddRule(s string) error {
	parts := strings.SplitN(s, ":-", 2)
	if len(parts) != 2 {
		return fmt.Errorf("rule must have form head :- body")
	}
	head, ok := ParseFact(parts[0])
	if !ok {
		return fmt.Errorf("invalid rule head %q", strings.TrimSpace(parts[0]))
	}
	var body []Fact
	for _, part := range splitTopLevel(parts[1]) {
		fact, ok := ParseFact(part)
		if !ok {
			return fmt.Errorf("invalid body term %q", part)
		}
		body = append(body, fact)
	}
	if len(body) == 0 {
		return fmt.Errorf("rule %q has an empty body", head.Predicate)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = append(e.rules, Rule{Head: head, Body: body})
	return nil
}

// AddPhrase parses and stores "name --> comp1, comp2".
func (e *Engine) AddPhrase(s string) error {
	parts := strings.SplitN(s, "-->", 2)
	if len(parts) != 2 {
		return fmt.Errorf("phrase must have form name --> components")
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return fmt.Errorf("phrase name must not be empty")
	}
	components := splitTopLevel(parts[1])
	if len(components) == 0 {
		return fmt.Errorf("phrase %q has no components", name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.phrases = append(e.phrases, Phrase{Name: name, Components: components})
	return nil
}

// AllFacts returns a copy of the fact base in load order.
func (e *Engine) AllFacts() []Fact {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Fact, len(e.facts))
	copy(out, e.facts)
	return out
}

// FactCount returns the size of the fact base.
func (e *Engine) FactCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.facts)
}

// RuleCount returns the number of loaded rules.
func (e *Engine) RuleCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.rules)
}

// Stats summarizes the fact base per predicate.
func (e *Engine) Stats() map[string]int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	counts := make(map[string]int, len(e.factIndex))
	for pred, idxs := range e.factIndex {
		counts[pred] = len(idxs)
	}
	return counts
}

// ParseFact parses "pred(a, b)" with an optional trailing period. A fact
// with no parentheses or empty argument list is rejected.
func ParseFact(s string) (Fact, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "."))
	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open <= 0 || end < open {
		return Fact{}, false
	}
	predicate := strings.TrimSpace(s[:open])
	if predicate == "" || strings.ContainsAny(predicate, " \t") {
		return Fact{}, false
	}
	argsStr := strings.TrimSpace(s[open+1 : end])
	var args []string
	if argsStr != "" {
		for _, a := range strings.Split(argsStr, ",") {
			args = append(args, strings.TrimSpace(a))
		}
	}
	return Fact{Predicate: predicate, Args: args}, true
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "%") ||
		strings.HasPrefix(line, "//") ||
		strings.HasPrefix(line, "#")
}

// splitTopLevel splits on commas outside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	for _, ch := range s {
		switch ch {
		case '(':
			depth++
			current.WriteRune(ch)
		case ')':
			depth--
			current.WriteRune(ch)
		case ',':
			if depth == 0 {
				if p := strings.TrimSpace(current.String()); p != "" {
					parts = append(parts, p)
				}
				current.Reset()
				continue
			}
			current.WriteRune(ch)
		default:
			current.WriteRune(ch)
		}
	}
	if p := strings.TrimSpace(current.String()); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// isVariable reports whether a term is a logic variable.
func isVariable(term string) bool {
	if term == "" {
		return false
	}
	c := term[0]
	return c >= 'A' && c <= 'Z'
}
