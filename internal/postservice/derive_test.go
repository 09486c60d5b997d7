package postservice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestReadTime(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected int
	}{
		{name: "empty", content: "", expected: 0},
		{name: "markup only", content: "<p></p>", expected: 1},
		{name: "one word", content: "hello", expected: 1},
		{name: "exactly 200 words", content: words(200), expected: 1},
		{name: "201 words", content: words(201), expected: 2},
		{name: "450 words", content: words(450), expected: 3},
		{name: "tags are not words", content: "<p>" + strings.Repeat(`<a href="https://example.com">x</a> `, 200) + "</p>", expected: 1},
		{name: "adjacent blocks do not merge", content: strings.Repeat("<p>word</p>", 201), expected: 2},
		{name: "mixed whitespace", content: "one\ttwo\nthree   four", expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ReadTime(tc.content))
		})
	}
}

func TestSanitizeContent(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no script tag",
			input: "<p>Hello, World!</p>",
			want:  "<p>Hello, World!</p>",
		},
		{
			name:  "script tag",
			input: "<script>alert('Hello, World!');</script>",
			want:  "",
		},
		{
			name:  "upper case with attributes",
			input: `before<SCRIPT SRC="evil.js"></SCRIPT>after`,
			want:  "beforeafter",
		},
		{
			name:  "multi-line script body",
			input: "<p>a</p><script>\nvar x = 1;\n</script><p>b</p>",
			want:  "<p>a</p><p>b</p>",
		},
		{
			name:  "multiple script tags",
			input: "one<script>1</script>two<script>2</script>three",
			want:  "onetwothree",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sanitizeContent(tc.input))
		})
	}
}
