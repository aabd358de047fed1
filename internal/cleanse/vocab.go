package cleanse

import (
	"regexp"
	"strings"
)

// The token vocabularies are fixed, closed sets. They are compile-time
// patterns rather than runtime-configurable state; any future
// extensibility belongs in an explicit pipeline option, not here.
var (
	// nullPattern matches the null spellings: "na", "n.a.", "nan", "nat",
	// "n/a" and friends, plus "none" and "null" with an optional trailing
	// dot. Case-insensitive.
	nullPattern = regexp.MustCompile(`(?i)^n[./]*a[./]*[nt]?[./]*$|^none\.?$|^null\.?$`)

	truePattern  = regexp.MustCompile(`(?i)^true$`)
	falsePattern = regexp.MustCompile(`(?i)^false$`)
	boolPattern  = regexp.MustCompile(`(?i)^(true|false)$`)

	// dateShapePattern recognizes tokens shaped like a calendar date in the
	// supported ISO-like forms, delimited or compact. It is a shape test
	// only; whether the digits form a real date is the coercer's call.
	dateShapePattern = regexp.MustCompile(`^\d{4}[-/]?\d{2}[-/]?\d{2}$`)
)

// IsNullToken reports whether the token, after trimming, is in the null
// vocabulary. Pure-whitespace and empty strings count as null.
func IsNullToken(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return true
	}
	return nullPattern.MatchString(trimmed)
}

// IsBoolToken reports whether the token is a boolean spelling.
func IsBoolToken(s string) bool {
	return boolPattern.MatchString(strings.TrimSpace(s))
}

// IsDateShaped reports whether the token has the shape of a supported
// date form. The numeric stage uses this to leave compact dates like
// "20230630" for the date stage instead of swallowing them as floats.
func IsDateShaped(s string) bool {
	return dateShapePattern.MatchString(strings.TrimSpace(s))
}

// CanonicalBoolToken maps a boolean spelling to its canonical "True" or
// "False" text form. The second return is false for non-boolean tokens.
func CanonicalBoolToken(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	switch {
	case truePattern.MatchString(trimmed):
		return "True", true
	case falsePattern.MatchString(trimmed):
		return "False", true
	default:
		return "", false
	}
}
