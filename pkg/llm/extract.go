package llm

import (
	"regexp"
	"strings"
)

// sqlFenceRegex matches the first ```sql fenced block in a response,
// non-greedy across newlines.
var sqlFenceRegex = regexp.MustCompile("(?is)```sql\\s*(.*?)\\s*```")

// ParseResponse interprets raw backend output as a generation result.
//
// The refusal sentinel anywhere in the text wins over everything else.
// Otherwise the first fenced block tagged sql is extracted; when the
// backend omitted fencing, the full trimmed text with surrounding
// backticks stripped is used. That lenient path is exactly what the
// downstream safety validator exists to police - leniency here does not
// imply the result is safe.
func ParseResponse(text string) GenerationResult {
	if strings.Contains(text, RefusalSentinel) {
		return Refused()
	}

	if match := sqlFenceRegex.FindStringSubmatch(text); match != nil {
		return Generated(strings.TrimSpace(match[1]))
	}

	return Generated(strings.Trim(strings.TrimSpace(text), "`"))
}
