package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single sentence",
			input: "Bear is an animal.",
			want:  []string{"bear is an animal."},
		},
		{
			name:  "newline separated",
			input: "Bear is an animal.\nCat has fur.",
			want:  []string{"bear is an animal.", "cat has fur."},
		},
		{
			name:  "space then uppercase",
			input: "Bear is an animal. Cat has fur.",
			want:  []string{"bear is an animal.", "cat has fur."},
		},
		{
			name:  "period not followed by uppercase stays joined",
			input: "the file is named x.txt and is small.",
			want:  []string{"the file is named x.txt and is small."},
		},
		{
			name:  "trailing text without period",
			input: "Bear is an animal. Cat has fur",
			want:  []string{"bear is an animal.", "cat has fur"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			input: "   \n\t  ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitSentences() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"bear is an animal.", []string{"bear", "is", "an", "animal"}},
		{"  double  spaced  ", []string{"double", "spaced"}},
		{"no period", []string{"no", "period"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := Tokenize(tt.input)
		if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}
