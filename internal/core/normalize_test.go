package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and strips punctuation",
			input:    "Hello, World!",
			expected: "hello world",
		},
		{
			name:     "removes urls",
			input:    "Visit http://example.com/path?x=1 please",
			expected: "visit please",
		},
		{
			name:     "removes email addresses",
			input:    "Contact admin@example.com today",
			expected: "contact today",
		},
		{
			name:     "drops stopwords and short tokens",
			input:    "it is the cat on my mat today",
			expected: "cat mat today",
		},
		{
			name:     "keeps numbers",
			input:    "account 12345 suspended",
			expected: "account 12345 suspended",
		},
		{
			name:     "collapses whitespace",
			input:    "  urgent \t\n  verification   required ",
			expected: "urgent verification required",
		},
		{
			name:     "url only input becomes empty",
			input:    "http://bit.ly/abc123",
			expected: "",
		},
		{
			name:     "punctuation only input becomes empty",
			input:    "!!! ??? ...",
			expected: "",
		},
		{
			name:     "empty input stays empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}
