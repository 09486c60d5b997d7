// Package slug derives URL-safe identifiers from titles and names.
package slug

import (
	"regexp"
	"strings"
)

var (
	disallowedRX = regexp.MustCompile(`[^a-z0-9 -]`)
	spacesRX     = regexp.MustCompile(`\s+`)
	hyphensRX    = regexp.MustCompile(`-+`)
)

// Generate lowercases s, drops everything outside [a-z0-9 -], turns runs of
// spaces into a single hyphen and trims hyphens from both ends.
// "Hello, World!! 2024" becomes "hello-world-2024".
func Generate(s string) string {
	result := strings.ToLower(s)
	result = disallowedRX.ReplaceAllString(result, "")
	result = spacesRX.ReplaceAllString(result, "-")
	result = hyphensRX.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
