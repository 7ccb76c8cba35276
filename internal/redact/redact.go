// Package redact scrubs credentials, tokens, mobile numbers and SQL from
// strings before they are logged or returned in error responses.
package redact

import "regexp"

// Placeholders substituted for redacted values.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	TokenPlaceholder      = "[REDACTED_TOKEN]"
	MobilePlaceholder     = "[REDACTED_MOBILE]"
	SQLPlaceholder        = "[REDACTED_SQL]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules run in order; earlier rules see the unmodified input.
var rules = []rule{
	{
		regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		JWTPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(postgres(?:ql)?|pgx)://[^@\s]+@`),
		"${1}://" + CredentialPlaceholder + "@",
	},
	{
		regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret)(\s*[=:]\s*)['"]?[^'"&\s]+['"]?`),
		"${1}${2}" + CredentialPlaceholder,
	},
	{
		regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`),
		TokenPlaceholder,
	},
	{
		regexp.MustCompile(`\+\d{9,15}\b|\b0\d{9}\b`),
		MobilePlaceholder,
	},
	{
		regexp.MustCompile(`\b(SELECT|INSERT INTO|UPDATE|DELETE FROM)\s[^;\n]*`),
		"${1} " + SQLPlaceholder,
	},
}

// String redacts sensitive information from input.
func String(input string) string {
	if input == "" {
		return input
	}
	for _, r := range rules {
		input = r.pattern.ReplaceAllString(input, r.replacement)
	}
	return input
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
