package logger

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// DefaultMask replaces sensitive parameter values in log output.
const DefaultMask = "***REDACTED***"

// DefaultSensitiveFields lists column name fragments treated as secrets.
var DefaultSensitiveFields = []string{
	"password", "passwd", "pwd",
	"token", "api_key", "apikey", "api_token",
	"secret", "auth", "authorization",
	"credit_card", "card_number", "cvv", "cvc",
	"ssn", "social_security",
	"private_key", "priv_key",
}

var (
	// "col = ?" fragments from SET, WHERE and HAVING, in placeholder order.
	assignmentRe = regexp.MustCompile(`([\w.]+)\s*=\s*\?`)
	// "INTO t (a, b) VALUES (" of INSERT and REPLACE.
	insertColumnsRe = regexp.MustCompile(`(?i)\bINTO\s+\S+\s*\(([^)]*)\)\s*VALUES\s*\(`)
)

// Sanitizer masks sensitive query parameters before they reach a log line.
//
// Statements rendered by the builder bind every parameter either to a
// "column = ?" fragment or to a positional INSERT/REPLACE column, so the
// sanitizer maps each placeholder back to its column and masks only the
// parameters whose column is sensitive. When that mapping fails it masks
// every parameter of a query that mentions a sensitive column.
type Sanitizer struct {
	patterns  []*regexp.Regexp
	maskValue string
}

// NewSanitizer creates a sanitizer for the given sensitive field names.
// If none are given DefaultSensitiveFields is used.
func NewSanitizer(sensitiveFields []string) *Sanitizer {
	if len(sensitiveFields) == 0 {
		sensitiveFields = DefaultSensitiveFields
	}

	patterns := lo.Map(sensitiveFields, func(field string, _ int) *regexp.Regexp {
		return regexp.MustCompile(`(?i)(^|[^a-z0-9])` + regexp.QuoteMeta(field) + `($|[^a-z0-9])`)
	})

	return &Sanitizer{
		patterns:  patterns,
		maskValue: DefaultMask,
	}
}

// MaskParams returns params with sensitive values replaced by the mask.
// The input slice is never modified.
func (s *Sanitizer) MaskParams(sql string, params []any) []any {
	if len(params) == 0 || !s.isSensitive(sql) {
		return params
	}

	columns := placeholderColumns(sql)
	if len(columns) != len(params) {
		return lo.Map(params, func(_ any, _ int) any { return s.maskValue })
	}

	return lo.Map(params, func(p any, i int) any {
		if s.isSensitive(columns[i]) {
			return s.maskValue
		}
		return p
	})
}

// isSensitive reports whether text names a sensitive field.
func (s *Sanitizer) isSensitive(text string) bool {
	return lo.ContainsBy(s.patterns, func(re *regexp.Regexp) bool {
		return re.MatchString(text)
	})
}

// placeholderColumns returns the column bound by each "?" in sql, in order.
// INSERT/REPLACE column lists come first, then "col = ?" fragments.
func placeholderColumns(sql string) []string {
	var columns []string
	if m := insertColumnsRe.FindStringSubmatch(sql); m != nil {
		columns = lo.Map(strings.Split(m[1], ","), func(c string, _ int) string {
			return strings.TrimSpace(c)
		})
	}
	for _, m := range assignmentRe.FindAllStringSubmatch(sql, -1) {
		columns = append(columns, m[1])
	}
	if strings.Count(sql, "?") != len(columns) {
		return nil
	}
	return columns
}

// FormatParams renders params for logging. Mask them with MaskParams first.
func (s *Sanitizer) FormatParams(params []any) string {
	return "[" + strings.Join(lo.Map(params, func(p any, _ int) string {
		return formatValue(p)
	}), ", ") + "]"
}

// formatValue formats one parameter, truncating long values.
func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}

	str := fmt.Sprintf("%v", v)

	// Counted in runes so multi-byte text is never cut mid-character.
	const maxLen = 100
	if utf8.RuneCountInString(str) > maxLen {
		return string([]rune(str)[:maxLen]) + "..."
	}
	return str
}
