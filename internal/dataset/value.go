package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the inferred type of a single cell.
type Kind int

const (
	Null Kind = iota
	Number
	String
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case String:
		return "string"
	default:
		return "null"
	}
}

// Value is a typed cell. The zero Value is Null.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
}

func NumberValue(f float64) Value { return Value{Kind: Number, Num: f} }
func StringValue(s string) Value  { return Value{Kind: String, Str: s} }

func (v Value) IsNull() bool { return v.Kind == Null }

// Float returns the numeric value and whether v is a Number.
func (v Value) Float() (float64, bool) {
	if v.Kind != Number {
		return 0, false
	}
	return v.Num, true
}

// String returns the canonical text form. Loose comparisons between
// numeric and string class values go through this form.
func (v Value) String() string {
	switch v.Kind {
	case Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case String:
		return v.Str
	default:
		return ""
	}
}

// LooseEqual compares two values the way a user-facing filter does:
// 3 matches "3", and "x" matches "x".
func LooseEqual(a, b Value) bool {
	if a.Kind == Null || b.Kind == Null {
		return a.Kind == b.Kind
	}
	if a.Kind == Number && b.Kind == Number {
		return a.Num == b.Num
	}
	return a.String() == b.String()
}

// Infer types a raw cell. Blank cells are Null, finite numbers are
// Number, everything else is the trimmed String.
func Infer(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Value{}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return NumberValue(f)
	}
	return StringValue(s)
}

// InferValue re-types an already typed value. It is the identity on
// values produced by Infer.
func InferValue(v Value) Value {
	if v.Kind == String {
		return Infer(v.Str)
	}
	return v
}
