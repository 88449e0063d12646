package world

import (
	"fmt"
	"strconv"

	"github.com/samber/oops"
)

// Kind identifies the type held by a Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindBool
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "absent"
	}
}

// Value is a single actor property. The zero Value is Absent, which is what
// reading an unset property returns.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
}

// Absent is the value of every unset property.
var Absent = Value{}

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int returns a numeric Value holding n.
func Int(n int) Value { return Value{kind: KindNumber, n: float64(n)} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

func (v Value) Kind() Kind { return v.kind }

// IsSet reports whether v holds anything other than Absent.
func (v Value) IsSet() bool { return v.kind != KindAbsent }

// Bool returns the boolean held by v. Absent and non-boolean values are false.
func (v Value) Bool() bool { return v.kind == KindBool && v.b }

// Number returns the number held by v, or 0 for any other kind.
func (v Value) Number() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.n
}

func (v Value) Int() int {
	return int(v.Number())
}

// Str returns the string held by v, or "" for any other kind.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// Any returns the Go representation of v: nil, bool, float64 or string.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	default:
		return nil
	}
}

// Is reports whether v equals x. Numbers compare by value regardless of Go
// numeric type, and Absent only equals nil. Unsupported types never match.
func (v Value) Is(x any) bool {
	other, err := ValueOf(x)
	if err != nil {
		return false
	}
	return v == other
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindString:
		return v.s
	default:
		return "<absent>"
	}
}

// ValueOf converts loader input (yaml, lua, json) into a Value.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Absent, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int:
		return Int(t), nil
	case int8:
		return Number(float64(t)), nil
	case int16:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint8:
		return Number(float64(t)), nil
	case uint16:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case float32:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	default:
		return Absent, oops.Code("UNSUPPORTED_VALUE").
			With("type", fmt.Sprintf("%T", x)).
			Errorf("unsupported property value of type %T", x)
	}
}
