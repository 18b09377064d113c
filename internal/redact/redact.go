// Package redact strips credentials, tokens, paths, and hostnames from
// strings before they are logged. Drive client errors routinely echo
// request URLs, bearer tokens, and service account identities.
package redact

import "regexp"

// Redaction placeholders.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order; earlier rules consume text later rules would
// otherwise split.
var rules = []rule{
	// Go panics and goroutine dumps
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`), "[STACK_TRACE_REDACTED]"},

	// PEM private keys, including the JSON-escaped form found in service account files
	{
		regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----[\s\S]*?-----END [A-Z ]*PRIVATE KEY-----`),
		"[REDACTED_PRIVATE_KEY]",
	},

	// Tokens
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), "[REDACTED_JWT]"},
	{regexp.MustCompile(`ya29\.[A-Za-z0-9_\-.]+`), RedactedTokenPlaceholder},
	{regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9_\-.~+/=]{8,}`), "${1}" + RedactedTokenPlaceholder},

	// Credentials in key=value form
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), RedactedCredentialPlaceholder},
	{
		regexp.MustCompile(`(?i)(api[_-]?key|key[_-]?id|token|secret|key|access|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		RedactedKeyPlaceholder,
	},

	// Service account and user identities
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},

	// Local paths and URLs
	{regexp.MustCompile(`(/[\w.-]+){2,}`), RedactedPathPlaceholder},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\]+(\\[^\\]+)+`), RedactedPathPlaceholder},
	{
		regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`),
		"[REDACTED_HOST]",
	},
	{regexp.MustCompile(`(?i)(?:no such file|file not found|can't open|cannot open|file error)`), "[REDACTED_FILE_ERROR]"},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
