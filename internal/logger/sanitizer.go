package logger

import (
	"fmt"
	"regexp"
	"strings"
)

const maskValue = "***REDACTED***"

// maxLoggedValueLen truncates long parameter values before logging.
const maxLoggedValueLen = 100

// Sanitizer masks parameter values before they reach logs when the SQL text
// references a sensitive column. The app stores cloud-drive credentials, so
// query logs must never echo token-bearing parameters.
type Sanitizer struct {
	patterns []*regexp.Regexp
}

// defaultSensitiveFields are column-name fragments that mark a statement as
// carrying secrets.
var defaultSensitiveFields = []string{
	"password", "token", "secret", "api_key", "apikey",
	"auth", "credential", "private_key",
}

// NewSanitizer builds a sanitizer for the given sensitive field names, or the
// defaults when none are given.
func NewSanitizer(fields ...string) *Sanitizer {
	if len(fields) == 0 {
		fields = defaultSensitiveFields
	}
	patterns := make([]*regexp.Regexp, 0, len(fields))
	for _, f := range fields {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(f)+`\b`))
	}
	return &Sanitizer{patterns: patterns}
}

// MaskParams returns params with every value replaced by the mask when the
// SQL references a sensitive field. The input slice is not modified.
func (s *Sanitizer) MaskParams(sqlText string, params []any) []any {
	if len(params) == 0 || !s.sensitive(sqlText) {
		return params
	}
	masked := make([]any, len(params))
	for i := range params {
		masked[i] = maskValue
	}
	return masked
}

func (s *Sanitizer) sensitive(sqlText string) bool {
	for _, p := range s.patterns {
		if p.MatchString(sqlText) {
			return true
		}
	}
	return false
}

// FormatParams renders params as a compact bracketed list for log fields,
// truncating oversized values.
func (s *Sanitizer) FormatParams(params []any) string {
	if len(params) == 0 {
		return "[]"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		if p == nil {
			parts[i] = "NULL"
			continue
		}
		str := fmt.Sprintf("%v", p)
		if len(str) > maxLoggedValueLen {
			str = str[:maxLoggedValueLen] + "..."
		}
		parts[i] = str
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
