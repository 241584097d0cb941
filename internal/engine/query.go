package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Result is a query answer set. Each binding line is either "true." for a
// ground match or "X = value, Y = value" sorted by variable name. Order
// follows discovery; duplicates are removed.
type Result struct {
	Bindings []string
	Duration time.Duration
}

// Query evaluates a query string. Three shapes are understood:
//
//	animal(X)                   simple query
//	animal(X), action(Y)        conjunction, bindings flow left to right
//	phrase(sentence, X)         cartesian generation over a phrase pattern
//
// A missing context deadline gets the configured query timeout.
func (e *Engine) Query(ctx context.Context, query string) (*Result, error) {
	query = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), "."))
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}

	if _, ok := ctx.Deadline(); !ok && e.config.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.QueryTimeout)
		defer cancel()
	}

	start := time.Now()

	e.mu.RLock()
	defer e.mu.RUnlock()

	var bindings []string
	var err error
	switch {
	case strings.HasPrefix(query, "phrase("):
		bindings, err = e.queryPhraseLocked(ctx, query)
	case len(splitTopLevel(query)) > 1:
		bindings, err = e.queryConjunctionLocked(ctx, query)
	default:
		bindings, err = e.querySimpleLocked(ctx, query)
	}
	if err != nil {
		return nil, err
	}

	return &Result{Bindings: bindings, Duration: time.Since(start)}, nil
}

func (e *Engine) querySimpleLocked(ctx context.Context, query string) ([]string, error) {
	goal, ok := ParseFact(query)
	if !ok {
		return nil, fmt.Errorf("invalid query %q", query)
	}

	var results []string
	seen := make(map[string]bool)
	add := func(b map[string]string) bool {
		formatted := formatBindings(b)
		if !seen[formatted] {
			seen[formatted] = true
			results = append(results, formatted)
		}
		return e.config.MaxResults == 0 || len(results) < e.config.MaxResults
	}

	for _, b := range e.matchGoalLocked(goal) {
		if !add(b) {
			return results, nil
		}
	}

	for _, rule := range e.rules {
		if rule.Head.Predicate != goal.Predicate {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("query interrupted: %w", err)
		}
		for _, b := range e.evaluateRuleLocked(ctx, rule, goal.Args) {
			if !add(b) {
				return results, nil
			}
		}
	}

	return results, nil
}

// matchGoalLocked returns every binding that satisfies the goal against the
// fact base, forward and bidirectional.
func (e *Engine) matchGoalLocked(goal Fact) []map[string]string {
	var out []map[string]string

	for _, idx := range e.factIndex[goal.Predicate] {
		if b, ok := unify(goal.Args, e.facts[idx].Args); ok {
			out = append(out, b)
		}
	}

	// Bidirectional: a fact bear(animal) answers animal(X) with X = bear.
	// The predicate becomes the first argument; the matched argument drops.
	for _, fact := range e.facts {
		for argIdx, arg := range fact.Args {
			if arg != goal.Predicate {
				continue
			}
			reversed := make([]string, 0, len(fact.Args))
			reversed = append(reversed, fact.Predicate)
			for i, other := range fact.Args {
				if i != argIdx {
					reversed = append(reversed, other)
				}
			}
			if b, ok := unify(goal.Args, reversed); ok {
				out = append(out, b)
			}
		}
	}

	return out
}

func (e *Engine) queryConjunctionLocked(ctx context.Context, query string) ([]string, error) {
	terms := splitTopLevel(query)

	solutions := []map[string]string{{}}
	for _, term := range terms {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("query interrupted: %w", err)
		}
		goal, ok := ParseFact(term)
		if !ok {
			return nil, fmt.Errorf("invalid term %q", term)
		}

		var next []map[string]string
		for _, existing := range solutions {
			substituted := substitute(goal.Args, existing)
			for _, idx := range e.factIndex[goal.Predicate] {
				if b, ok := unify(substituted, e.facts[idx].Args); ok {
					next = append(next, merged(existing, b))
				}
			}
		}
		solutions = next
		if len(solutions) == 0 {
			break
		}
	}

	results := make([]string, 0, len(solutions))
	for _, b := range solutions {
		results = append(results, formatBindings(b))
		if e.config.MaxResults > 0 && len(results) >= e.config.MaxResults {
			break
		}
	}
	return results, nil
}

func (e *Engine) queryPhraseLocked(ctx context.Context, query string) ([]string, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(query, "phrase("), ")")
	args := splitTopLevel(inner)
	if len(args) != 2 {
		return nil, fmt.Errorf("phrase/2 expects phrase(name, Variable)")
	}
	name, variable := args[0], args[1]

	var phrase *Phrase
	for i := range e.phrases {
		if e.phrases[i].Name == name {
			phrase = &e.phrases[i]
			break
		}
	}
	if phrase == nil {
		return nil, fmt.Errorf("phrase %q is not defined", name)
	}

	var combos [][]string
	if err := e.generateLocked(ctx, phrase.Components, 0, nil, &combos); err != nil {
		return nil, err
	}

	results := make([]string, 0, len(combos))
	for _, combo := range combos {
		results = append(results, fmt.Sprintf("%s = [%s]", variable, strings.Join(combo, ", ")))
		if e.config.MaxResults > 0 && len(results) >= e.config.MaxResults {
			break
		}
	}
	return results, nil
}

// generateLocked walks the component list depth-first, one unary fact per
// component.
func (e *Engine) generateLocked(ctx context.Context, components []string, index int, current []string, out *[][]string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("generation interrupted: %w", err)
	}
	if index >= len(components) {
		combo := make([]string, len(current))
		copy(combo, current)
		*out = append(*out, combo)
		return nil
	}

	component := components[index]
	idxs := e.factIndex[component]
	if len(idxs) == 0 {
		return fmt.Errorf("no facts found for component %q", component)
	}
	for _, idx := range idxs {
		fact := e.facts[idx]
		if len(fact.Args) != 1 {
			continue
		}
		if err := e.generateLocked(ctx, components, index+1, append(current, fact.Args[0]), out); err != nil {
			return err
		}
	}
	return nil
}

// evaluateRuleLocked proves the rule head for the query arguments, joining
// body terms left to right with both forward and bidirectional matching.
// Answers are projected onto the query's own variables, so querying
// grandparent(A, B) against a head grandparent(X, Z) reports A and B.
func (e *Engine) evaluateRuleLocked(ctx context.Context, rule Rule, queryArgs []string) []map[string]string {
	if len(queryArgs) != len(rule.Head.Args) {
		return nil
	}

	// seed binds rule variables from ground query arguments; projection maps
	// each query variable to the head term standing in its position.
	seed := make(map[string]string)
	projection := make(map[string]string)
	for i, qa := range queryArgs {
		ha := rule.Head.Args[i]
		switch {
		case isVariable(qa):
			projection[qa] = ha
		case isVariable(ha):
			if prev, ok := seed[ha]; ok && prev != qa {
				return nil
			}
			seed[ha] = qa
		default:
			if qa != ha {
				return nil
			}
		}
	}

	solutions := []map[string]string{seed}
	for _, bodyFact := range rule.Body {
		if ctx.Err() != nil {
			return nil
		}
		var next []map[string]string
		for _, existing := range solutions {
			substituted := substitute(bodyFact.Args, existing)
			goal := Fact{Predicate: bodyFact.Predicate, Args: substituted}
			for _, b := range e.matchGoalLocked(goal) {
				next = append(next, merged(existing, b))
			}
		}
		solutions = next
		if len(solutions) == 0 {
			return nil
		}
	}

	out := make([]map[string]string, 0, len(solutions))
	for _, solution := range solutions {
		answer := make(map[string]string, len(projection))
		for qv, term := range projection {
			if isVariable(term) {
				if v, ok := solution[term]; ok {
					answer[qv] = v
					continue
				}
			}
			answer[qv] = term
		}
		out = append(out, answer)
	}
	return out
}

// unify matches query args against fact args. Variables bind consistently;
// constants must be equal. Returns the variable bindings on success.
func unify(queryArgs, factArgs []string) (map[string]string, bool) {
	if len(queryArgs) != len(factArgs) {
		return nil, false
	}
	bindings := make(map[string]string)
	for i, q := range queryArgs {
		f := factArgs[i]
		if isVariable(q) {
			if existing, ok := bindings[q]; ok {
				if existing != f {
					return nil, false
				}
				continue
			}
			bindings[q] = f
			continue
		}
		if q != f {
			return nil, false
		}
	}
	return bindings, true
}

// substitute replaces bound variables in args, leaving unbound ones as-is.
func substitute(args []string, bindings map[string]string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if isVariable(arg) {
			if v, ok := bindings[arg]; ok {
				out[i] = v
				continue
			}
		}
		out[i] = arg
	}
	return out
}

func merged(a, b map[string]string) map[string]string {
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// formatBindings renders a solution: "true." when ground, else sorted
// "X = v" pairs.
func formatBindings(bindings map[string]string) string {
	if len(bindings) == 0 {
		return "true."
	}
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s = %s", k, bindings[k]))
	}
	return strings.Join(pairs, ", ")
}
