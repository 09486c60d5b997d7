package slug

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "punctuation and year", input: "Hello, World!! 2024", want: "hello-world-2024"},
		{name: "simple title", input: "Mastering React Hooks", want: "mastering-react-hooks"},
		{name: "leading and trailing spaces", input: "  go generics  ", want: "go-generics"},
		{name: "repeated spaces", input: "one    two", want: "one-two"},
		{name: "existing hyphens", input: "well-known -- fact", want: "well-known-fact"},
		{name: "leading hyphens", input: "---intro", want: "intro"},
		{name: "tabs are stripped", input: "tab\tseparated", want: "tabseparated"},
		{name: "accented letters are stripped", input: "Café Résumé", want: "caf-rsum"},
		{name: "ampersand", input: "AI & Machine Learning", want: "ai-machine-learning"},
		{name: "only symbols", input: "!@#$%^&*()", want: ""},
		{name: "empty", input: "", want: ""},
		{name: "digits", input: "2026", want: "2026"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Generate(tc.input))
		})
	}
}

func TestGenerateShape(t *testing.T) {
	shape := regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)

	inputs := []string{
		"The Future of Web Development: What to Expect in 2024",
		" - - Mixed -- Separators - - ",
		"UPPER lower 123 !!!",
		"emoji 🚀 rockets",
		"a",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got := Generate(input)
			assert.Regexp(t, shape, got)
			assert.Equal(t, got, Generate(got), "slug generation should be idempotent")
		})
	}
}
