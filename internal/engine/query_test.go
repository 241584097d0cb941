package engine

import (
	"context"
	"strings"
	"testing"
	"time"
)

func loadedEngine(t *testing.T, facts string) *Engine {
	t.Helper()
	e := New(DefaultConfig())
	if _, err := e.LoadFacts(strings.NewReader(facts)); err != nil {
		t.Fatalf("LoadFacts: %v", err)
	}
	return e
}

func TestQuerySimple(t *testing.T) {
	e := loadedEngine(t, "animal(bear).\nanimal(deer).\nanimal(owl).")

	res, err := e.Query(context.Background(), "animal(X)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Bindings) != 3 {
		t.Fatalf("bindings = %d, want 3: %v", len(res.Bindings), res.Bindings)
	}
	if res.Bindings[0] != "X = bear" {
		t.Errorf("first binding = %q", res.Bindings[0])
	}
}

func TestQueryGround(t *testing.T) {
	e := loadedEngine(t, "animal(bear).")

	res, err := e.Query(context.Background(), "animal(bear).")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Bindings) != 1 || res.Bindings[0] != "true." {
		t.Errorf("bindings = %v, want [true.]", res.Bindings)
	}

	res, err = e.Query(context.Background(), "animal(zebra)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Bindings) != 0 {
		t.Errorf("bindings = %v, want none", res.Bindings)
	}
}

func TestQueryBidirectional(t *testing.T) {
	// Translated sentences put the subject in predicate position, so
	// bear(animal) must still answer animal(X).
	e := loadedEngine(t, "bear(animal).\ndeer(animal).")

	res, err := e.Query(context.Background(), "animal(X)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Bindings) != 2 {
		t.Fatalf("bindings = %v, want 2", res.Bindings)
	}
	if res.Bindings[0] != "X = bear" || res.Bindings[1] != "X = deer" {
		t.Errorf("bindings = %v", res.Bindings)
	}
}

func TestQueryTwoArguments(t *testing.T) {
	e := loadedEngine(t, "likes(bear, honey).\nlikes(deer, grass).")

	res, err := e.Query(context.Background(), "likes(X, honey)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Bindings) != 1 || res.Bindings[0] != "X = bear" {
		t.Errorf("bindings = %v", res.Bindings)
	}

	res, err = e.Query(context.Background(), "likes(X, Y)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Bindings) != 2 {
		t.Errorf("bindings = %v", res.Bindings)
	}
	if res.Bindings[0] != "X = bear, Y = honey" {
		t.Errorf("first binding = %q", res.Bindings[0])
	}
}

func TestQueryRepeatedVariable(t *testing.T) {
	e := loadedEngine(t, "pair(a, a).\npair(a, b).")

	res, err := e.Query(context.Background(), "pair(X, X)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Bindings) != 1 || res.Bindings[0] != "X = a" {
		t.Errorf("bindings = %v", res.Bindings)
	}
}

func TestQueryConjunction(t *testing.T) {
	e := loadedEngine(t, "animal(bear).\naction(run).\naction(sleep).")

	res, err := e.Query(context.Background(), "animal(X), action(Y)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Bindings) != 2 {
		t.Fatalf("bindings = %v, want 2", res.Bindings)
	}
	if res.Bindings[0] != "X = bear, Y = run" {
		t.Errorf("first binding = %q", res.Bindings[0])
	}
}

func TestQueryConjunctionSharedVariable(t *testing.T) {
	e := loadedEngine(t, "animal(bear).\nanimal(deer).\nfast(deer).")

	res, err := e.Query(context.Background(), "animal(X), fast(X)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Bindings) != 1 || res.Bindings[0] != "X = deer" {
		t.Errorf("bindings = %v", res.Bindings)
	}
}

func TestQueryRule(t *testing.T) {
	e := loadedEngine(t, "man(socrates).\nman(plato).")
	if err := e.AddRule("mortal(X) :- man(X)."); err != nil {
		t.Fatalf("AddRule: %v", err)
	}

	res, err := e.Query(context.Background(), "mortal(X)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Bindings) != 2 {
		t.Fatalf("bindings = %v, want 2", res.Bindings)
	}
	if res.Bindings[0] != "X = socrates" {
		t.Errorf("first binding = %q", res.Bindings[0])
	}
}

func TestQueryRuleConjunctiveBody(t *testing.T) {
	e := loadedEngine(t, "parent(ann, bob).\nparent(bob, cal).")
	if err := e.AddRule("grandparent(X, Z) :- parent(X, Y), parent(Y, Z)."); err != nil {
		t.Fatalf("AddRule: %v", err)
	}

	res, err := e.Query(context.Background(), "grandparent(A, B)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Bindings) != 1 {
		t.Fatalf("bindings = %v, want 1", res.Bindings)
	}
	if !strings.Contains(res.Bindings[0], "A = ann") || !strings.Contains(res.Bindings[0], "B = cal") {
		t.Errorf("binding = %q", res.Bindings[0])
	}
}

func TestQueryRuleGround(t *testing.T) {
	e := loadedEngine(t, "man(socrates).")
	if err := e.AddRule("mortal(X) :- man(X)."); err != nil {
		t.Fatalf("AddRule: %v", err)
	}

	res, err := e.Query(context.Background(), "mortal(socrates)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Bindings) != 1 || res.Bindings[0] != "true." {
		t.Errorf("bindings = %v, want [true.]", res.Bindings)
	}

	res, err = e.Query(context.Background(), "mortal(zeus)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Bindings) != 0 {
		t.Errorf("bindings = %v, want none", res.Bindings)
	}
}

func TestQueryPhrase(t *testing.T) {
	e := loadedEngine(t, "animal(bear).\nanimal(deer).\naction(run).\naction(sleep).")
	if err := e.AddPhrase("sentence --> animal, action"); err != nil {
		t.Fatalf("AddPhrase: %v", err)
	}

	res, err := e.Query(context.Background(), "phrase(sentence, X)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Bindings) != 4 {
		t.Fatalf("bindings = %v, want 4", res.Bindings)
	}
	if res.Bindings[0] != "X = [bear, run]" {
		t.Errorf("first binding = %q", res.Bindings[0])
	}
	if res.Bindings[3] != "X = [deer, sleep]" {
		t.Errorf("last binding = %q", res.Bindings[3])
	}
}

func TestQueryPhraseMissingComponent(t *testing.T) {
	e := loadedEngine(t, "animal(bear).")
	if err := e.AddPhrase("sentence --> animal, action"); err != nil {
		t.Fatalf("AddPhrase: %v", err)
	}

	if _, err := e.Query(context.Background(), "phrase(sentence, X)"); err == nil {
		t.Fatal("expected error for component with no facts")
	}
}

func TestQueryUndefinedPhrase(t *testing.T) {
	e := loadedEngine(t, "animal(bear).")

	if _, err := e.Query(context.Background(), "phrase(nothing, X)"); err == nil {
		t.Fatal("expected error for undefined phrase")
	}
}

func TestQueryMaxResults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxResults = 2
	e := New(cfg)
	if _, err := e.LoadFacts(strings.NewReader("n(a).\nn(b).\nn(c).\nn(d).")); err != nil {
		t.Fatal(err)
	}

	res, err := e.Query(context.Background(), "n(X)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(res.Bindings) != 2 {
		t.Errorf("bindings = %d, want capped 2", len(res.Bindings))
	}
}

func TestQueryEmpty(t *testing.T) {
	e := New(DefaultConfig())
	if _, err := e.Query(context.Background(), "   ."); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestQueryCancelledContext(t *testing.T) {
	e := loadedEngine(t, "animal(bear).")
	if err := e.AddRule("mortal(X) :- animal(X)."); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Query(ctx, "mortal(X)"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestQueryReportsDuration(t *testing.T) {
	e := loadedEngine(t, "animal(bear).")

	res, err := e.Query(context.Background(), "animal(X)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if res.Duration < 0 || res.Duration > time.Second {
		t.Errorf("duration = %v", res.Duration)
	}
}
