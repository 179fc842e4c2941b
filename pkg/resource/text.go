package resource

import (
	"html"
	"regexp"
	"strings"
)

var (
	blockTagPattern = regexp.MustCompile(`(?i)</?(p|div|br|li|h[1-6]|pre|blockquote)[^>]*>`)
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	blankRunPattern = regexp.MustCompile(`\n{3,}`)
)

// PlainText renders stored rich text (HTML) for the terminal: block tags
// become line breaks, other tags are dropped and entities are decoded.
func PlainText(s string) string {
	s = blockTagPattern.ReplaceAllString(s, "\n")
	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankRunPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
