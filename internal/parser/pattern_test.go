package parser

import (
	"testing"

	"clausify/internal/lexicon"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    []TokenKind
		wantErr bool
	}{
		{
			name: "literal and type",
			expr: "a <Noun> is a <Noun>",
			want: []TokenKind{KindLiteral, KindType, KindLiteral, KindLiteral, KindType},
		},
		{
			name: "wildcard",
			expr: "<Noun> * <Noun>",
			want: []TokenKind{KindType, KindWildcard, KindType},
		},
		{
			name: "optional literal",
			expr: "[the] <Noun> <Verb>",
			want: []TokenKind{KindOptional, KindType, KindType},
		},
		{
			name: "greedy type",
			expr: "<Noun>+ <Verb>",
			want: []TokenKind{KindGreedy, KindType},
		},
		{
			name: "type alternation",
			expr: "<Noun|Verb>",
			want: []TokenKind{KindType},
		},
		{
			name:    "empty expression",
			expr:    "   ",
			wantErr: true,
		},
		{
			name:    "unterminated type",
			expr:    "<Noun",
			wantErr: true,
		},
		{
			name:    "unterminated optional",
			expr:    "[the",
			wantErr: true,
		},
		{
			name:    "alternation with no known types",
			expr:    "<Bogus|Nope>",
			wantErr: true,
		},
		{
			name:    "nested greedy in optional",
			expr:    "[<Noun>+]",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Compile(tt.expr)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Compile(%q) expected error, got %v", tt.expr, tokens)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", tt.expr, err)
			}
			if len(tokens) != len(tt.want) {
				t.Fatalf("Compile(%q) = %d tokens, want %d", tt.expr, len(tokens), len(tt.want))
			}
			for i, k := range tt.want {
				if tokens[i].Kind != k {
					t.Errorf("token %d: kind = %v, want %v", i, tokens[i].Kind, k)
				}
			}
		})
	}
}

func TestCompileDropsUnknownTypeInAlternation(t *testing.T) {
	tokens, err := Compile("<Noun|Bogus>")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if len(tokens) != 1 || len(tokens[0].Types) != 1 || tokens[0].Types[0] != lexicon.Noun {
		t.Fatalf("expected single Noun alternative, got %+v", tokens[0])
	}
}

func TestCompileLowercasesLiterals(t *testing.T) {
	tokens, err := Compile("The")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if tokens[0].Literal != "the" {
		t.Fatalf("literal = %q, want %q", tokens[0].Literal, "the")
	}
}
