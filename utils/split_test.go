package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitMatches(t *testing.T) {
	han := regexp.MustCompile(`[\x{4E00}-\x{9FFF}]+`)
	tests := []struct {
		name     string
		input    string
		expected []Piece
	}{
		{
			name:     "Empty string",
			input:    "",
			expected: []Piece{},
		},
		{
			name:     "Only matched",
			input:    "中文",
			expected: []Piece{{Text: "中文", Matched: true}},
		},
		{
			name:     "Only unmatched",
			input:    "abc",
			expected: []Piece{{Text: "abc"}},
		},
		{
			name:  "Interleaved",
			input: "a中文b，分词",
			expected: []Piece{
				{Text: "a"},
				{Text: "中文", Matched: true},
				{Text: "b，"},
				{Text: "分词", Matched: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SplitMatches(han, tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSplitMatchesRejoins(t *testing.T) {
	skip := regexp.MustCompile(`(\r\n|\s)`)
	inputs := []string{
		"hello world",
		"  leading and trailing  ",
		"line\r\nbreak\ttab",
		"没有空格",
	}
	for _, input := range inputs {
		var b strings.Builder
		for _, p := range SplitMatches(skip, input) {
			b.WriteString(p.Text)
		}
		assert.Equal(t, input, b.String())
	}
}
