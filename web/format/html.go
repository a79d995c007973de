package format

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
)

var numberedListItem = regexp.MustCompile(`^\d+\.\s`)

// ConvertToHTML renders tutor Markdown as an HTML fragment.
func ConvertToHTML(text string) string {
	text = strings.TrimSpace(PreprocessAssistantText(text))
	if text == "" {
		return ""
	}
	text = normalizeMarkdownLists(text)
	return strings.TrimSpace(string(markdown.ToHTML([]byte(text), nil, nil)))
}

// PreprocessAssistantText normalizes LLM output.
func PreprocessAssistantText(text string) string {
	if text == "" {
		return text
	}

	// Replace curly quotes (helps readability)
	return strings.NewReplacer(
		"“", "\"",
		"”", "\"",
		"‘", "'",
		"’", "'",
	).Replace(text)
}

// normalizeMarkdownLists ensures list items have proper spacing for markdown parsing.
// Markdown requires a blank line before lists, but LLMs often forget this.
func normalizeMarkdownLists(text string) string {
	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))

	for i, line := range lines {
		if isListItem(line) && i > 0 {
			prevLine := strings.TrimSpace(lines[i-1])
			// Add blank line before list if previous line is text
			if prevLine != "" && !isListItem(prevLine) {
				result = append(result, "")
			}
		}
		result = append(result, line)
	}

	return strings.Join(result, "\n")
}

func isListItem(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "- ") ||
		strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "+ ") ||
		numberedListItem.MatchString(trimmed)
}
