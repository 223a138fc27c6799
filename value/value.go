package value

import (
	"fmt"
	"strconv"
)

type Value interface {
	String() string
	Type() string

	// Truthy follows Lua: only nil and false are false.
	Truthy() bool
}

type Nil struct{}

func (Nil) String() string { return "nil" }
func (Nil) Type() string   { return "nil" }
func (Nil) Truthy() bool   { return false }

type Boolean bool

func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }
func (Boolean) Type() string     { return "boolean" }
func (b Boolean) Truthy() bool   { return bool(b) }

type Number float64

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

func (Number) Type() string { return "number" }
func (Number) Truthy() bool { return true }

func IsNil(v Value) bool {
	_, ok := v.(Nil)
	return ok || v == nil
}

// Equal compares by value for primitives and strings, and by identity for
// tables.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Nil, nil:
		return IsNil(b)
	case Boolean:
		other, ok := b.(Boolean)
		return ok && a == other
	case Number:
		other, ok := b.(Number)
		return ok && a == other
	case *String:
		other, ok := b.(*String)
		return ok && a.Chars == other.Chars
	case *Table:
		other, ok := b.(*Table)
		return ok && a == other
	default:
		panic(fmt.Sprint("Unrecognized value: ", a))
	}
}
