// Package security checks rendered statements for injection patterns before
// they reach the driver.
//
// Column names, table names, join conditions and registered expressions are
// interpolated into the SQL text, so a statement built from untrusted
// identifiers can carry a payload even though every value is bound. The
// Validator inspects that text and the string parameters.
package security

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var (
	// ErrDangerousQuery is returned when rendered SQL matches an injection pattern.
	ErrDangerousQuery = errors.New("dangerous SQL pattern detected")
	// ErrSuspiciousParam is returned when a string parameter looks like an injection payload.
	ErrSuspiciousParam = errors.New("suspicious parameter value")
)

// Validator validates SQL queries and parameters against dangerous patterns.
type Validator struct {
	patterns []*regexp.Regexp
	strict   bool
}

// ValidatorOption configures the Validator.
type ValidatorOption func(*Validator)

// WithStrict enables strict validation mode (more aggressive).
func WithStrict(strict bool) ValidatorOption {
	return func(v *Validator) {
		v.strict = strict
	}
}

// NewValidator creates a new SQL injection validator with default dangerous patterns.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		patterns: compilePatterns(dangerousPatterns),
	}

	for _, opt := range opts {
		opt(v)
	}

	if v.strict {
		v.patterns = append(v.patterns, compilePatterns(strictPatterns)...)
	}

	return v
}

// dangerousPatterns match constructs the builder never emits on its own.
var dangerousPatterns = []string{
	// Comments
	`--[\s]`,
	`/\*.*\*/`,
	`#[\s]`,

	// Stacked queries
	`;\s*DROP\s+`,
	`;\s*DELETE\s+`,
	`;\s*TRUNCATE\s+`,
	`;\s*ALTER\s+`,
	`;\s*CREATE\s+`,
	`;\s*INSERT\s+`,
	`;\s*UPDATE\s+`,

	// UNION-based attacks
	`UNION\s+ALL\s+SELECT`,
	`UNION\s+SELECT`,

	// Timing and metadata probes
	`INFORMATION_SCHEMA`,
	`BENCHMARK\s*\(`,
	`\bSLEEP\s*\(`,
	`LOAD_FILE\s*\(`,
	`INTO\s+OUTFILE`,
	`INTO\s+DUMPFILE`,

	// Boolean-based blind injection
	`\s+OR\s+1\s*=\s*1\b`,
	`\s+OR\s+'1'\s*=\s*'1'`,
	`\s+AND\s+1\s*=\s*0\b`,
}

// strictPatterns reject anything outside the builder's own output. The
// renderer joins conditions with AND, so AND is allowed; OR, UNION and any
// semicolon can only come from interpolated identifiers.
var strictPatterns = []string{
	`\bOR\b`,
	`\bUNION\b`,
	`;`,
	`'`,
}

// paramIndicators are substrings that mark a string parameter as an injection attempt.
var paramIndicators = []string{
	"'--",
	"';",
	"' OR ",
	"' AND ",
	"/*",
	"*/",
	"' UNION ",
	"' DROP ",
}

// ValidateQuery checks rendered SQL for dangerous patterns.
func (v *Validator) ValidateQuery(query string) error {
	normalized := strings.ToUpper(query)

	for _, pattern := range v.patterns {
		if pattern.MatchString(normalized) {
			return ErrDangerousQuery
		}
	}

	return nil
}

// ValidateParams checks string parameters for injection payloads. Bound
// parameters cannot alter the statement, but such values usually mean the
// caller is probing the application.
func (v *Validator) ValidateParams(params []any) error {
	for i, param := range params {
		str, ok := param.(string)
		if !ok {
			continue
		}
		if containsSQLInjection(str) {
			return fmt.Errorf("%w at index %d", ErrSuspiciousParam, i)
		}
	}

	return nil
}

// Validate runs ValidateQuery and then ValidateParams.
func (v *Validator) Validate(query string, params []any) error {
	if err := v.ValidateQuery(query); err != nil {
		return err
	}
	return v.ValidateParams(params)
}

func containsSQLInjection(value string) bool {
	upper := strings.ToUpper(value)
	return lo.ContainsBy(paramIndicators, func(indicator string) bool {
		return strings.Contains(upper, indicator)
	})
}

// compilePatterns compiles string patterns to regexp.Regexp.
func compilePatterns(patterns []string) []*regexp.Regexp {
	return lo.Map(patterns, func(p string, _ int) *regexp.Regexp {
		return regexp.MustCompile(p)
	})
}
