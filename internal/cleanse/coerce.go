package cleanse

import (
	"strconv"
	"strings"
	"time"
)

// canonicalDateLayout is the normalized output form for date cells.
const canonicalDateLayout = "2006-01-02"

// dateLayouts are the accepted input date forms, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"20060102",
	"2006/01/02",
}

// CoerceFloat attempts to parse a single cell as a float. Boolean and
// date-shaped tokens are refused even when strconv would accept them
// (a compact date like "20230630" parses as a float but belongs to the
// date stage). Accepts plain integers, decimals, signs, and scientific
// notation.
func CoerceFloat(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if boolPattern.MatchString(trimmed) || dateShapePattern.MatchString(trimmed) {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// CoerceDate attempts to parse a single cell as a calendar date in one of
// the supported layouts and returns the canonical YYYY-MM-DD text form.
func CoerceDate(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(canonicalDateLayout), true
		}
	}
	return "", false
}

// CoerceBool attempts to parse a single cell as a boolean spelling.
func CoerceBool(s string) (bool, bool) {
	trimmed := strings.TrimSpace(s)
	switch {
	case truePattern.MatchString(trimmed):
		return true, true
	case falsePattern.MatchString(trimmed):
		return false, true
	default:
		return false, false
	}
}
