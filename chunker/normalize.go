package chunker

import "strings"

// NormalizeMarkdown trims every line and collapses runs of blank lines into
// a single blank line. It is pure and idempotent: normalizing an already
// normalized document is a no-op.
func NormalizeMarkdown(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" && len(cleaned) > 0 && cleaned[len(cleaned)-1] == "" {
			continue
		}
		cleaned = append(cleaned, line)
	}

	return strings.Join(cleaned, "\n")
}
