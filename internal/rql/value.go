package rql

import (
	"strconv"
	"strings"
)

// Value is a sealed interface over RQL argument values.
// Only String, Int, Float, Bool, Null, List and *Node implement it.
type Value interface {
	rqlValue() // Sealed - only these types implement it

	// String renders the value the way it would appear as a query term.
	// Lists render as their comma-separated elements.
	String() string
}

// String is a textual argument. Quotes typed by the user are retained.
type String string

func (String) rqlValue() {}

func (s String) String() string { return string(s) }

// Int is an integral numeric argument.
type Int int64

func (Int) rqlValue() {}

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float is a decimal numeric argument.
type Float float64

func (Float) rqlValue() {}

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'f', -1, 64) }

// Bool is a true/false argument.
type Bool bool

func (Bool) rqlValue() {}

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Null is the null argument.
type Null struct{}

func (Null) rqlValue() {}

func (Null) String() string { return "null" }

// List is a parenthesised argument array such as (a,b,c).
type List []Value

func (List) rqlValue() {}

func (l List) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}

// Strings flattens a value into its term strings.
// A List yields one string per element; any other value yields itself.
// A nil value yields nil.
func Strings(v Value) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case List:
		out := make([]string, len(val))
		for i, elem := range val {
			out[i] = elem.String()
		}
		return out
	default:
		return []string{v.String()}
	}
}

// Values returns the elements of a List, or the value itself as a
// one-element slice.
func Values(v Value) []Value {
	switch val := v.(type) {
	case nil:
		return nil
	case List:
		return []Value(val)
	default:
		return []Value{v}
	}
}

// ParseScalar converts a raw token into a typed scalar.
// Integers become Int, decimals become Float, true/false become Bool,
// null becomes Null, everything else stays a String.
func ParseScalar(raw string) Value {
	switch raw {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "null":
		return Null{}
	}
	if looksNumeric(raw) {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Int(i)
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return Float(f)
		}
	}
	return String(raw)
}

// looksNumeric rejects forms strconv accepts but RQL treats as text
// (e.g. "Inf", "0x10", "1e5", "_1").
func looksNumeric(raw string) bool {
	if raw == "" {
		return false
	}
	digits := 0
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-' && i == 0:
		case r == '.':
		default:
			return false
		}
	}
	return digits > 0
}
