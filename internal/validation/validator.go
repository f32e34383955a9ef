// Package validation holds stateless checks for identity-related input.
//
// The SQL-injection heuristic here is a deny-list, not a parser. It is a
// secondary layer only: every repository in this module uses parameterized
// queries, which is the control that actually keeps input out of query syntax.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMinPasswordLength is the strength threshold used when callers have
// no configured value.
const DefaultMinPasswordLength = 6

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.]{3,30}$`)
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	letterPattern   = regexp.MustCompile(`[A-Za-z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
)

// denyPatterns is matched in order; the first hit rejects the input.
var denyPatterns = compileDenyList(
	`(\s|^)(ALTER|CREATE|DELETE|DROP|EXEC(UTE)?|INSERT(\s+INTO)?|MERGE|SELECT|UPDATE|UNION(\s+ALL)?)\s`,
	`--`,
	`;`,
	`/\*`,
	`\*/`,
	`xp_`,
	`sp_`,
	`0x[0-9a-f]+`,
	`CHAR\(`,
	`NCHAR\(`,
	`VARCHAR\(`,
	`NVARCHAR\(`,
	`CAST\(`,
	`CONVERT\(`,
	`@@`,
	`@\w+`,
	`'(\s|$)`,
	`'\w`,
	`('')+`,
	`OR\s+\w+\s*=\s*\w+`,
	`AND\s+\w+\s*=\s*\w+`,
)

// sanitizeTokens are removed by SanitizeInput, in this order.
var sanitizeTokens = []string{`'`, `"`, `;`, `--`, `/*`, `*/`, `xp_`, `sp_`}

func compileDenyList(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidUsername reports whether s is 3 to 30 characters drawn from
// letters, digits, underscore and dot.
func IsValidUsername(s string) bool {
	if isBlank(s) {
		return false
	}
	return usernamePattern.MatchString(s)
}

// IsValidEmail reports whether s has a basic local@domain.tld shape.
func IsValidEmail(s string) bool {
	if isBlank(s) {
		return false
	}
	return emailPattern.MatchString(s)
}

// IsStrongPassword reports whether s has at least minLength characters and
// contains at least one letter and one digit.
func IsStrongPassword(s string, minLength int) bool {
	if isBlank(s) {
		return false
	}
	if utf8.RuneCountInString(s) < minLength {
		return false
	}
	return letterPattern.MatchString(s) && digitPattern.MatchString(s)
}

// IsSqlInjectionSafe reports whether s is blank or matches none of the deny
// patterns. Matching is case-insensitive.
func IsSqlInjectionSafe(s string) bool {
	if isBlank(s) {
		return true
	}
	for _, re := range denyPatterns {
		if re.MatchString(s) {
			return false
		}
	}
	return true
}

// SanitizeInput strips quote, terminator, comment and system-procedure tokens
// and trims surrounding whitespace. Removal repeats until nothing changes,
// so removing one token cannot splice a new one together ("-xp_-" becomes ""
// rather than "--"). Blank input is returned unchanged.
func SanitizeInput(s string) string {
	if isBlank(s) {
		return s
	}

	for {
		before := s
		for _, tok := range sanitizeTokens {
			s = strings.ReplaceAll(s, tok, "")
		}
		if s == before {
			break
		}
	}

	return strings.TrimSpace(s)
}

// LimitLength returns the first max characters of s. Blank input and input
// already within bound are returned unchanged; a negative max yields "".
func LimitLength(s string, max int) string {
	if isBlank(s) {
		return s
	}
	if max < 0 {
		max = 0
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
