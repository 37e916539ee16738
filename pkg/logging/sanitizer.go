package logging

import (
	"regexp"
)

const (
	// MaxQueryLogLength is the maximum length of a query to log
	MaxQueryLogLength = 100
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Matches password=xxx, pwd=xxx, pass=xxx in connection strings.
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Matches bearer tokens, which the generation backend error text can
	// echo back from the Authorization header.
	bearerPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_.]+`)

	// Matches API keys passed as key-value pairs.
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9-_]{20,}`)

	// Matches user:pass@host credentials in URL-style connection strings.
	connStringPattern = regexp.MustCompile(`://[^:]+:[^@]+@[^/\s]+`)
)

// SanitizeConnectionString removes credentials from a connection string so
// it can be logged at startup.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)

	return sanitized
}

// SanitizeError scrubs error messages that might contain secrets before
// they reach the logs. Database and backend errors can embed connection
// strings and auth headers verbatim.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(err.Error(), "${1}="+RedactedText)
	sanitized = bearerPattern.ReplaceAllString(sanitized, "Bearer "+RedactedText)
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)

	return sanitized
}

// SanitizeQuery truncates a SQL query for logging and scrubs credential
// patterns that may appear in literals.
func SanitizeQuery(query string) string {
	if query == "" {
		return ""
	}

	sanitized := query
	if len(sanitized) > MaxQueryLogLength {
		sanitized = sanitized[:MaxQueryLogLength] + "..."
	}

	sanitized = passwordPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)

	return sanitized
}
