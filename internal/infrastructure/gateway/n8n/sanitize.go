package n8n

import (
	"regexp"
	"strings"
)

var (
	brPattern  = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagPattern = regexp.MustCompile(`<[^>]+>`)

	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// sanitizeHTML strips markup that generation workflows tend to leave in
// their output. Line breaks become newlines, remaining tags are removed,
// and common HTML entities are decoded so the stored recipe is plain text.
func sanitizeHTML(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = brPattern.ReplaceAllString(s, "\n")
	s = tagPattern.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	return strings.TrimSpace(s)
}
