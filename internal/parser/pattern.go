package parser

import (
	"fmt"
	"strings"

	"clausify/internal/lexicon"
)

// TokenKind discriminates pattern tokens.
type TokenKind int

const (
	// KindLiteral matches one exact word, case-insensitive.
	KindLiteral TokenKind = iota
	// KindType matches one word carrying any of the listed parts of speech.
	KindType
	// KindWildcard matches any single word without capturing it.
	KindWildcard
	// KindOptional matches its inner token zero or one times.
	KindOptional
	// KindGreedy matches its inner token one or more times, capturing the
	// run joined with underscores.
	KindGreedy
)

// Token is one element of a compiled pattern expression.
type Token struct {
	Kind    TokenKind
	Literal string
	Types   []lexicon.WordType
	Inner   *Token
}

// Compile parses a pattern expression into tokens.
//
// Syntax, whitespace separated:
//
//	word            literal match
//	<Noun|Verb>     type alternation
//	*               wildcard (one word, not captured)
//	[<Det>] [the]   optional token
//	<Noun>+         greedy run (captured words joined by "_")
//
// Unknown type names inside <> are dropped; an alternation with no valid
// type left is an error.
func Compile(expr string) ([]Token, error) {
	fields := strings.Fields(expr)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty pattern expression")
	}

	tokens := make([]Token, 0, len(fields))
	for _, field := range fields {
		tok, err := compileField(field)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func compileField(field string) (Token, error) {
	if strings.HasPrefix(field, "[") {
		if !strings.HasSuffix(field, "]") {
			return Token{}, fmt.Errorf("unterminated optional token %q", field)
		}
		inner, err := compileField(field[1 : len(field)-1])
		if err != nil {
			return Token{}, err
		}
		if inner.Kind == KindOptional || inner.Kind == KindGreedy {
			return Token{}, fmt.Errorf("optional token %q cannot nest %q", field, inner.Kind)
		}
		return Token{Kind: KindOptional, Inner: &inner}, nil
	}

	if strings.HasSuffix(field, "+") && len(field) > 1 {
		inner, err := compileField(strings.TrimSuffix(field, "+"))
		if err != nil {
			return Token{}, err
		}
		if inner.Kind == KindOptional || inner.Kind == KindGreedy {
			return Token{}, fmt.Errorf("greedy token %q cannot nest %q", field, inner.Kind)
		}
		return Token{Kind: KindGreedy, Inner: &inner}, nil
	}

	if field == "*" {
		return Token{Kind: KindWildcard}, nil
	}

	if strings.HasPrefix(field, "<") {
		if !strings.HasSuffix(field, ">") {
			return Token{}, fmt.Errorf("unterminated type token %q", field)
		}
		var types []lexicon.WordType
		for _, name := range strings.Split(field[1:len(field)-1], "|") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			t, err := lexicon.ParseWordType(name)
			if err != nil {
				continue
			}
			types = append(types, t)
		}
		if len(types) == 0 {
			return Token{}, fmt.Errorf("type token %q names no known word types", field)
		}
		return Token{Kind: KindType, Types: types}, nil
	}

	return Token{Kind: KindLiteral, Literal: strings.ToLower(field)}, nil
}

func (k TokenKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindType:
		return "type"
	case KindWildcard:
		return "wildcard"
	case KindOptional:
		return "optional"
	case KindGreedy:
		return "greedy"
	default:
		return "unknown"
	}
}
