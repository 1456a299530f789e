// Package value implements the engine's tagged cell value and the
// coercion rules that convert externally supplied raw values to a
// column's declared type.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Int
	Float
	Bool
	Text
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "NULL"
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case Bool:
		return "BOOL"
	case Text:
		return "TEXT"
	default:
		return "UNKNOWN"
	}
}

// ParseKind maps a column type spelling from the dialect ("INT",
// "TEXT", "BOOL", "FLOAT") to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(s) {
	case "INT":
		return Int, nil
	case "FLOAT":
		return Float, nil
	case "BOOL":
		return Bool, nil
	case "TEXT":
		return Text, nil
	default:
		return Null, fmt.Errorf("unsupported column type %q", s)
	}
}

// Value is a tagged cell value: exactly one of Int, Float, Bool, or
// Str is meaningful, selected by Kind. The zero Value is Null.
type Value struct {
	Kind Kind
	Int  int64
	Flt  float64
	Bln  bool
	Str  string
}

// NullValue is the canonical Null value.
var NullValue = Value{Kind: Null}

// IsNull reports whether v holds Null.
func (v Value) IsNull() bool { return v.Kind == Null }

// Raw returns v's payload as a Go value suitable for JSON encoding,
// row maps handed back to callers, and gob-based persistence: nil,
// int64, float64, bool, or string.
func (v Value) Raw() any {
	switch v.Kind {
	case Null:
		return nil
	case Int:
		return v.Int
	case Float:
		return v.Flt
	case Bool:
		return v.Bln
	case Text:
		return v.Str
	default:
		return nil
	}
}

// String renders v for diagnostics and for the foreign-key cascade's
// visited-set keys.
func (v Value) String() string {
	switch v.Kind {
	case Null:
		return "NULL"
	case Int:
		return strconv.FormatInt(v.Int, 10)
	case Float:
		return strconv.FormatFloat(v.Flt, 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(v.Bln)
	case Text:
		return v.Str
	default:
		return ""
	}
}

// Equal implements strict per-variant equality, with the Executor's
// case-insensitive Text exception applied by EqualFold, not here.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case Null:
		return false // Null never equals Null, including against itself
	case Int:
		return v.Int == o.Int
	case Float:
		return v.Flt == o.Flt
	case Bool:
		return v.Bln == o.Bln
	case Text:
		return v.Str == o.Str
	default:
		return false
	}
}

// EqualFold is Equal, except Text comparison is case-insensitive, as
// used by the Executor for filtering and uniqueness.
func (v Value) EqualFold(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	if v.Kind == Text {
		return strings.EqualFold(v.Str, o.Str)
	}
	return v.Equal(o)
}

// IsNullLiteral reports whether raw is Go nil or a string whose
// upper-cased form is "NULL".
func IsNullLiteral(raw any) bool {
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok {
		return strings.ToUpper(s) == "NULL"
	}
	return false
}

// TypeError reports a raw value that could not be coerced to a
// declared column type.
type TypeError struct {
	Raw   any
	Kind  Kind
	Cause string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("cannot coerce %#v to %s: %s", e.Raw, e.Kind, e.Cause)
}

// Coerce converts an externally supplied raw value (nil, bool, int64,
// float64, or string, as produced by the parser or a programmatic
// caller) to a Value of the declared Kind.
func Coerce(raw any, declared Kind) (Value, error) {
	if IsNullLiteral(raw) {
		return NullValue, nil
	}
	switch declared {
	case Int:
		return coerceInt(raw)
	case Float:
		return coerceFloat(raw)
	case Bool:
		return coerceBool(raw)
	case Text:
		return coerceText(raw)
	default:
		return Value{}, &TypeError{Raw: raw, Kind: declared, Cause: "unsupported declared kind"}
	}
}

func coerceInt(raw any) (Value, error) {
	switch r := raw.(type) {
	case int64:
		return Value{Kind: Int, Int: r}, nil
	case int:
		return Value{Kind: Int, Int: int64(r)}, nil
	case float64:
		if r != float64(int64(r)) {
			return Value{}, &TypeError{Raw: raw, Kind: Int, Cause: "float has a fractional part"}
		}
		return Value{Kind: Int, Int: int64(r)}, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(r), 10, 64)
		if err != nil {
			return Value{}, &TypeError{Raw: raw, Kind: Int, Cause: "not an integer-parseable string"}
		}
		return Value{Kind: Int, Int: n}, nil
	case bool:
		return Value{}, &TypeError{Raw: raw, Kind: Int, Cause: "bool is not accepted for an INT column"}
	default:
		return Value{}, &TypeError{Raw: raw, Kind: Int, Cause: "unsupported raw type"}
	}
}

func coerceFloat(raw any) (Value, error) {
	switch r := raw.(type) {
	case float64:
		return Value{Kind: Float, Flt: r}, nil
	case int64:
		return Value{Kind: Float, Flt: float64(r)}, nil
	case int:
		return Value{Kind: Float, Flt: float64(r)}, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(r), 64)
		if err != nil {
			return Value{}, &TypeError{Raw: raw, Kind: Float, Cause: "not a numeric-parseable string"}
		}
		return Value{Kind: Float, Flt: f}, nil
	case bool:
		return Value{}, &TypeError{Raw: raw, Kind: Float, Cause: "bool is not accepted for a FLOAT column"}
	default:
		return Value{}, &TypeError{Raw: raw, Kind: Float, Cause: "unsupported raw type"}
	}
}

func coerceBool(raw any) (Value, error) {
	switch r := raw.(type) {
	case bool:
		return Value{Kind: Bool, Bln: r}, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(r)) {
		case "true", "1", "yes", "t":
			return Value{Kind: Bool, Bln: true}, nil
		case "false", "0", "no", "f", "":
			return Value{Kind: Bool, Bln: false}, nil
		default:
			return Value{}, &TypeError{Raw: raw, Kind: Bool, Cause: "not a recognized boolean spelling"}
		}
	default:
		return Value{}, &TypeError{Raw: raw, Kind: Bool, Cause: "unsupported raw type"}
	}
}

func coerceText(raw any) (Value, error) {
	switch r := raw.(type) {
	case string:
		return Value{Kind: Text, Str: r}, nil
	case int64:
		return Value{Kind: Text, Str: strconv.FormatInt(r, 10)}, nil
	case int:
		return Value{Kind: Text, Str: strconv.Itoa(r)}, nil
	case float64:
		return Value{Kind: Text, Str: strconv.FormatFloat(r, 'g', -1, 64)}, nil
	case bool:
		return Value{Kind: Text, Str: strconv.FormatBool(r)}, nil
	default:
		return Value{Kind: Text, Str: fmt.Sprint(r)}, nil
	}
}
