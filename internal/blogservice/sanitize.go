package blogservice

import (
	"regexp"
	"strings"
)

var (
	scriptTagRX    = regexp.MustCompile(`(?is)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)
	javascriptRX   = regexp.MustCompile(`(?i)javascript\s*:`)
	eventHandlerRX = regexp.MustCompile(`(?i)\bon\w+\s*=`)
)

func sanitizeMarkdown(markdown string) string {
	markdown = scriptTagRX.ReplaceAllString(markdown, "")
	markdown = javascriptRX.ReplaceAllString(markdown, "")
	return eventHandlerRX.ReplaceAllString(markdown, "")
}

// normalizeTags trims and lower-cases tags, dropping blanks and repeats.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))

	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}

	return out
}
