package postservice

import (
	"regexp"
	"strings"
)

var (
	tagRX    = regexp.MustCompile(`<[^>]*>`)
	scriptRX = regexp.MustCompile(`(?is)<\s*script[^>]*>.*?<\s*/\s*script\s*>`)
)

// ReadTime estimates whole reading minutes for HTML content, ignoring markup.
// Non-empty content always takes at least a minute.
func ReadTime(content string) int {
	if content == "" {
		return 0
	}

	words := len(strings.Fields(stripTags(content)))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}

	return minutes
}

// stripTags replaces every tag with a space so adjacent block elements do not merge words.
func stripTags(html string) string {
	return tagRX.ReplaceAllString(html, " ")
}

// sanitizeContent removes script elements from post content.
func sanitizeContent(content string) string {
	return scriptRX.ReplaceAllString(content, "")
}
