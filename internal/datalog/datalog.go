// Package datalog runs stratified Datalog programs over translated facts
// using the Google Mangle engine. It complements the engine package: engine
// implements the translator's own Prolog-ish semantics (bidirectional
// matching, phrase generation), datalog gives translated fact bases real
// recursive rule evaluation.
package datalog

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"
	"github.com/google/mangle/unionfind"
)

// Config bounds the Datalog engine.
type Config struct {
	FactLimit    int
	QueryTimeout time.Duration
	AutoEval     bool
}

// DefaultConfig returns sensible limits for interactive use.
func DefaultConfig() Config {
	return Config{
		FactLimit:    100000,
		QueryTimeout: 30 * time.Second,
		AutoEval:     true,
	}
}

// Engine wraps a Mangle program and fact store.
type Engine struct {
	config Config

	mu             sync.RWMutex
	store          factstore.ConcurrentFactStore
	baseStore      factstore.FactStoreWithRemove
	programInfo    *analysis.ProgramInfo
	queryContext   *mengine.QueryContext
	predicateIndex map[string]ast.PredicateSym
	fragments      []parse.SourceUnit
	factCount      int
	autoEval       bool
}

// Fact is a predicate with ground string arguments; the Datalog bridge for
// the translator's clause shape.
type Fact struct {
	Predicate string
	Args      []string
}

// Result holds query bindings plus evaluation time.
type Result struct {
	Bindings []map[string]string
	Duration time.Duration
}

// Stats reports fact counts per predicate.
type Stats struct {
	TotalFacts      int
	PredicateCounts map[string]int
}

// New creates an engine with an empty store.
func New(cfg Config) *Engine {
	baseStore := factstore.NewSimpleInMemoryStore()
	return &Engine{
		config:         cfg,
		baseStore:      baseStore,
		store:          factstore.NewConcurrentFactStore(baseStore),
		predicateIndex: make(map[string]ast.PredicateSym),
		autoEval:       cfg.AutoEval,
	}
}

// LoadProgram parses and analyzes a Mangle source unit (declarations and
// rules). Multiple loads accumulate; each reanalyzes the whole program.
func (e *Engine) LoadProgram(src string) error {
	unit, err := parse.Unit(bytes.NewReader([]byte(src)))
	if err != nil {
		return fmt.Errorf("parse program: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.fragments = append(e.fragments, unit)
	if err := e.rebuildLocked(); err != nil {
		// Keep the program consistent: drop the fragment that broke it.
		e.fragments = e.fragments[:len(e.fragments)-1]
		if len(e.fragments) > 0 {
			_ = e.rebuildLocked()
		}
		return fmt.Errorf("analyze program: %w", err)
	}
	return nil
}

func (e *Engine) rebuildLocked() error {
	if len(e.fragments) == 0 {
		return fmt.Errorf("no program loaded")
	}

	var clauses []ast.Clause
	var decls []ast.Decl
	for _, fragment := range e.fragments {
		clauses = append(clauses, fragment.Clauses...)
		decls = append(decls, fragment.Decls...)
	}

	programInfo, err := analysis.AnalyzeOneUnit(parse.SourceUnit{Clauses: clauses, Decls: decls}, nil)
	if err != nil {
		return err
	}

	e.programInfo = programInfo
	e.predicateIndex = make(map[string]ast.PredicateSym, len(programInfo.Decls))
	predToDecl := make(map[ast.PredicateSym]*ast.Decl, len(programInfo.Decls))
	for sym, decl := range programInfo.Decls {
		e.predicateIndex[sym.Symbol] = sym
		predToDecl[sym] = decl
	}

	predToRules := make(map[ast.PredicateSym][]ast.Clause)
	for _, clause := range programInfo.Rules {
		predToRules[clause.Head.Predicate] = append(predToRules[clause.Head.Predicate], clause)
	}

	e.queryContext = &mengine.QueryContext{
		PredToRules: predToRules,
		PredToDecl:  predToDecl,
		Store:       e.store,
	}
	return nil
}

// DeclareFromFacts synthesizes declarations for every predicate present in
// the fact list, so translated output can be loaded without hand-written
// schema. Arities are taken from the first fact per predicate; conflicting
// arities are an error.
func DeclareFromFacts(facts []Fact) (string, error) {
	arities := make(map[string]int)
	var order []string
	for _, f := range facts {
		if existing, ok := arities[f.Predicate]; ok {
			if existing != len(f.Args) {
				return "", fmt.Errorf("predicate %s used with arity %d and %d", f.Predicate, existing, len(f.Args))
			}
			continue
		}
		arities[f.Predicate] = len(f.Args)
		order = append(order, f.Predicate)
	}

	var b strings.Builder
	for _, pred := range order {
		vars := make([]string, arities[pred])
		modes := make([]string, arities[pred])
		for i := range vars {
			vars[i] = fmt.Sprintf("X%d", i)
			modes[i] = `"-"`
		}
		fmt.Fprintf(&b, "Decl %s(%s) descr [mode(%s)].\n", pred, strings.Join(vars, ", "), strings.Join(modes, ", "))
	}
	return b.String(), nil
}

// AddFacts inserts facts, re-evaluating rules afterwards when auto-eval is
// on. Arguments are stored as Mangle name constants when identifier-shaped,
// strings otherwise.
func (e *Engine) AddFacts(facts []Fact) error {
	if len(facts) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.programInfo == nil {
		return fmt.Errorf("no program loaded; call LoadProgram first")
	}

	for _, fact := range facts {
		if e.config.FactLimit > 0 && e.factCount >= e.config.FactLimit {
			return fmt.Errorf("fact limit exceeded: %d", e.config.FactLimit)
		}
		atom, err := e.factToAtomLocked(fact)
		if err != nil {
			return err
		}
		if e.store.Add(atom) {
			e.factCount++
		}
	}

	if e.autoEval {
		if _, err := mengine.EvalProgramWithStats(e.programInfo, e.store); err != nil {
			return fmt.Errorf("evaluate rules: %w", err)
		}
	}
	return nil
}

// AddFact inserts a single fact.
func (e *Engine) AddFact(predicate string, args ...string) error {
	return e.AddFacts([]Fact{{Predicate: predicate, Args: args}})
}

// Recompute forces full rule evaluation; used after bulk loads with
// auto-eval off.
func (e *Engine) Recompute() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.programInfo == nil {
		return fmt.Errorf("no program loaded")
	}
	if _, err := mengine.EvalProgramWithStats(e.programInfo, e.store); err != nil {
		return fmt.Errorf("evaluate rules: %w", err)
	}
	return nil
}

func (e *Engine) factToAtomLocked(fact Fact) (ast.Atom, error) {
	sym, ok := e.predicateIndex[fact.Predicate]
	if !ok {
		return ast.Atom{}, fmt.Errorf("predicate %s is not declared", fact.Predicate)
	}
	if len(fact.Args) != sym.Arity {
		return ast.Atom{}, fmt.Errorf("predicate %s expects %d args, got %d", fact.Predicate, sym.Arity, len(fact.Args))
	}

	args := make([]ast.BaseTerm, len(fact.Args))
	for i, raw := range fact.Args {
		term, err := stringToTerm(raw)
		if err != nil {
			return ast.Atom{}, fmt.Errorf("predicate %s arg %d: %w", fact.Predicate, i, err)
		}
		args[i] = term
	}
	return ast.Atom{Predicate: sym, Args: args}, nil
}

// stringToTerm promotes identifier-shaped strings to name constants so rules
// can match them symbolically; everything else stays a string constant.
func stringToTerm(s string) (ast.BaseTerm, error) {
	if strings.HasPrefix(s, "/") {
		return ast.Name(s)
	}
	if isIdentifier(s) {
		if name, err := ast.Name("/" + s); err == nil {
			return name, nil
		}
	}
	return ast.String(s), nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	if !(c >= 'a' && c <= 'z' || c == '_') {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			return false
		}
	}
	return true
}

// Query evaluates "pred(X, ...)" returning one binding map per derived
// fact. The predicate must be declared with at least one mode.
func (e *Engine) Query(ctx context.Context, query string) (*Result, error) {
	clean := strings.TrimSpace(query)
	clean = strings.TrimPrefix(clean, "?")
	clean = strings.TrimSpace(strings.TrimSuffix(clean, "."))
	if clean == "" {
		return nil, fmt.Errorf("empty query")
	}

	atom, err := parse.Atom(clean)
	if err != nil {
		return nil, fmt.Errorf("parse query %q: %w", query, err)
	}

	e.mu.RLock()
	queryContext := e.queryContext
	if queryContext == nil {
		e.mu.RUnlock()
		return nil, fmt.Errorf("no program loaded")
	}
	decl, ok := queryContext.PredToDecl[atom.Predicate]
	if !ok {
		e.mu.RUnlock()
		return nil, fmt.Errorf("predicate %s is not declared", atom.Predicate.Symbol)
	}
	if len(decl.Modes()) == 0 {
		e.mu.RUnlock()
		return nil, fmt.Errorf("predicate %s has no modes declared", atom.Predicate.Symbol)
	}
	mode := decl.Modes()[0]
	e.mu.RUnlock()

	if _, ok := ctx.Deadline(); !ok && e.config.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.QueryTimeout)
		defer cancel()
	}

	type binding struct {
		name  string
		index int
	}
	var variables []binding
	for idx, arg := range atom.Args {
		if v, ok := arg.(ast.Variable); ok {
			variables = append(variables, binding{name: v.Symbol, index: idx})
		}
	}

	start := time.Now()
	resultCh := make(chan []map[string]string, 1)
	errCh := make(chan error, 1)

	go func() {
		var rows []map[string]string
		err := queryContext.EvalQuery(atom, mode, unionfind.New(), func(derived ast.Atom) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			row := make(map[string]string, len(variables))
			for _, v := range variables {
				if v.index < len(derived.Args) {
					row[v.name] = termToString(derived.Args[v.index])
				}
			}
			rows = append(rows, row)
			return nil
		})
		if err != nil {
			errCh <- err
			return
		}
		resultCh <- rows
	}()

	select {
	case rows := <-resultCh:
		return &Result{Bindings: rows, Duration: time.Since(start)}, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("query timed out after %v: %w", time.Since(start), ctx.Err())
	}
}

func termToString(term ast.BaseTerm) string {
	if c, ok := term.(ast.Constant); ok {
		switch c.Type {
		case ast.StringType:
			return c.Symbol
		case ast.NameType:
			return strings.TrimPrefix(c.Symbol, "/")
		case ast.NumberType:
			return fmt.Sprintf("%d", c.NumValue)
		}
	}
	return term.String()
}

// GetFacts returns all stored and derived facts for a predicate.
func (e *Engine) GetFacts(predicate string) ([]Fact, error) {
	e.mu.RLock()
	sym, ok := e.predicateIndex[predicate]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("predicate %s is not declared", predicate)
	}

	var results []Fact
	err := e.store.GetFacts(ast.NewQuery(sym), func(atom ast.Atom) error {
		args := make([]string, len(atom.Args))
		for i, arg := range atom.Args {
			args[i] = termToString(arg)
		}
		results = append(results, Fact{Predicate: predicate, Args: args})
		return nil
	})
	return results, err
}

// GetStats reports store sizes per predicate.
func (e *Engine) GetStats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	counts := make(map[string]int)
	for _, sym := range e.store.ListPredicates() {
		n := 0
		_ = e.store.GetFacts(ast.NewQuery(sym), func(ast.Atom) error {
			n++
			return nil
		})
		counts[sym.Symbol] = n
	}
	return Stats{TotalFacts: e.store.EstimateFactCount(), PredicateCounts: counts}
}

// Clear drops all facts but keeps the loaded program.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.baseStore = factstore.NewSimpleInMemoryStore()
	e.store = factstore.NewConcurrentFactStore(e.baseStore)
	e.factCount = 0
	if e.queryContext != nil {
		e.queryContext.Store = e.store
	}
}
