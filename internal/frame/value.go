package frame

import (
	"strconv"
	"strings"
)

// Kind identifies the underlying representation of a cell value.
type Kind int

const (
	// KindMissing is the canonical missing marker. It is a distinguished
	// value, not an empty string, so stages can tell "genuinely missing"
	// apart from empty string content.
	KindMissing Kind = iota
	KindText
	KindFloat
	KindBool
)

// String returns the kind name for logging and test output.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindText:
		return "text"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a single cell. It is a tagged union over the representations a
// cell can hold before and after cleansing: raw or normalized text, a
// parsed float, a parsed boolean, or the missing marker.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
}

// Missing returns the canonical missing marker.
func Missing() Value {
	return Value{kind: KindMissing}
}

// Text returns a text cell. The string is stored verbatim; trimming is the
// standardizer's job, not the container's.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Float returns a parsed numeric cell.
func Float(f float64) Value {
	return Value{kind: KindFloat, num: f}
}

// Bool returns a parsed boolean cell.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind returns the value's representation tag.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the value is the missing marker.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Text returns the text content and whether the value is a text cell.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// Float returns the numeric content and whether the value is a float cell.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindFloat
}

// Bool returns the boolean content and whether the value is a bool cell.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsText renders any non-missing value in its string form. Floats use the
// shortest round-trippable decimal form, booleans render as "true"/"false".
// The missing marker renders as the empty string; callers that care about
// missingness must check IsMissing first.
func (v Value) AsText() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindFloat:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindFloat:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	default:
		return true
	}
}

// String implements fmt.Stringer for diagnostics.
func (v Value) String() string {
	if v.IsMissing() {
		return "<missing>"
	}
	s := v.AsText()
	if strings.TrimSpace(s) == "" {
		return strconv.Quote(s)
	}
	return s
}
