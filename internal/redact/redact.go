// Package redact provides utilities for redacting sensitive information
// from strings before they are logged or returned in error responses.
// It prevents accidental leakage of connection strings, credentials,
// file paths, and SQL fragments that might be embedded in error messages.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
)

// Precompiled regex patterns
var (
	// Database connection strings
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|mysql|db|database|connection)://[^@\s]+@`)

	// Credentials and tokens
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`)
	apiKeyRegex   = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|key|access|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// File paths
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	// SQL queries and fragments
	sqlRegex = regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(?:FROM|INTO|SET|TABLE|DATABASE)(?:[\s\w,*()='"]+)?`,
	)

	// Host:port pairs
	hostPortRegex = regexp.MustCompile(
		`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`,
	)

	patternPlaceholders = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		{dbConnRegex, RedactedCredentialPlaceholder},
		{passwordRegex, RedactedCredentialPlaceholder},
		{apiKeyRegex, RedactedKeyPlaceholder},
		{unixPathRegex, RedactedPathPlaceholder},
		{sqlRegex, "[REDACTED_SQL]"},
		{hostPortRegex, "[REDACTED_HOST]"},
	}
)

// String redacts sensitive patterns from the given string.
func String(s string) string {
	for _, p := range patternPlaceholders {
		s = p.pattern.ReplaceAllString(s, p.placeholder)
	}
	return s
}

// Error redacts sensitive patterns from an error's message.
// A nil error yields an empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
