// Package value defines the runtime tagged union flowing through the
// interpreter's environment.
package value

import (
	"fmt"
)

// Type is the tag in the Value tagged union.
type Type uint8

const (
	TypeVoid Type = iota
	TypeInt
	TypeBool
	TypeDirection
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeDirection:
		return "direction"
	case TypeString:
		return "string"
	default:
		return "void"
	}
}

// Value is a tagged union. Num carries int and bool payloads; Text
// carries direction names and string contents.
type Value struct {
	Type Type
	Num  int64
	Text string
}

// Void is the absent value.
var Void = Value{}

// Int wraps an integer.
func Int(n int64) Value { return Value{Type: TypeInt, Num: n} }

// Bool wraps a boolean.
func Bool(b bool) Value {
	var n int64
	if b {
		n = 1
	}
	return Value{Type: TypeBool, Num: n}
}

// Direction wraps a direction name.
func Direction(name string) Value { return Value{Type: TypeDirection, Text: name} }

// String wraps string contents.
func String(s string) Value { return Value{Type: TypeString, Text: s} }

// Int64 returns the integer payload.
func (v Value) Int64() int64 { return v.Num }

// IsTrue returns the boolean payload; only meaningful for TypeBool.
func (v Value) IsTrue() bool { return v.Type == TypeBool && v.Num != 0 }

// Equal compares two values of the same type.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case TypeDirection, TypeString:
		return v.Text == o.Text
	default:
		return v.Num == o.Num
	}
}

// Format returns the surface-syntax representation of the value.
func (v Value) Format() string {
	switch v.Type {
	case TypeInt:
		return fmt.Sprintf("%d", v.Num)
	case TypeBool:
		if v.Num != 0 {
			return "true"
		}
		return "false"
	case TypeDirection:
		return v.Text
	case TypeString:
		return fmt.Sprintf("%q", v.Text)
	default:
		return "void"
	}
}

// Zero returns the default value for a declared type: int 0, bool false,
// direction north.
func Zero(t Type) Value {
	switch t {
	case TypeInt:
		return Int(0)
	case TypeBool:
		return Bool(false)
	case TypeDirection:
		return Direction("north")
	case TypeString:
		return String("")
	default:
		return Void
	}
}
