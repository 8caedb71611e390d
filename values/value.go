// Package values provides register values as they are observed by the
// predictors: a value class plus a fixed-width little-endian payload.
package values

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Class represents the register class a value was written to.
type Class uint8

// Register value classes.
const (
	Float Class = iota
	Int8
	Int16
	Int32
	Int64
)

// MaxWidth is the widest payload a value can carry, in bytes (one xmm register).
const MaxWidth = 16

var classNames = [...]string{
	Float: "float",
	Int8:  "int8",
	Int16: "int16",
	Int32: "int32",
	Int64: "int64",
}

// String returns the class name.
func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// Valid reports whether c is one of the defined classes.
func (c Class) Valid() bool {
	return c <= Int64
}

// IsFloat reports whether c belongs to the floating-point family.
func (c Class) IsFloat() bool {
	return c == Float
}

// Width returns the number of payload bytes that take part in comparisons.
func (c Class) Width() int {
	switch c {
	case Int8:
		return 1
	case Int16:
		return 2
	case Int32:
		return 4
	case Int64:
		return 8
	default:
		return MaxWidth
	}
}

// ParseClass converts a class name back into a Class.
func ParseClass(s string) (Class, error) {
	for i, name := range classNames {
		if name == s {
			return Class(i), nil
		}
	}
	return 0, fmt.Errorf("unknown value class %q", s)
}

// Key is the comparable, width-masked form of a Value. Two values of the
// same class are equal exactly when their keys are equal.
type Key struct {
	Class Class
	Bytes [MaxWidth]byte
}

// Value is a register value tagged with its class.
type Value struct {
	class Class
	raw   [MaxWidth]byte
}

// FromUint64 builds a value of the given class from an integer. Bits above
// the class width are retained in the backing store but ignored by Equal.
func FromUint64(class Class, v uint64) Value {
	val := Value{class: class}
	binary.LittleEndian.PutUint64(val.raw[:8], v)
	return val
}

// FromFloat64 builds a Float value from a float64.
func FromFloat64(f float64) Value {
	return FromUint64(Float, math.Float64bits(f))
}

// FromBytes builds a value from a little-endian payload. Payloads longer
// than MaxWidth are truncated.
func FromBytes(class Class, b []byte) Value {
	val := Value{class: class}
	copy(val.raw[:], b)
	return val
}

// Class returns the value class.
func (v Value) Class() Class {
	return v.class
}

// Bytes returns the full backing payload.
func (v Value) Bytes() [MaxWidth]byte {
	return v.raw
}

// Uint64 returns the low 64 bits of the payload masked to the class width.
func (v Value) Uint64() uint64 {
	u := binary.LittleEndian.Uint64(v.raw[:8])
	if w := v.class.Width(); w < 8 {
		u &= (uint64(1) << (8 * w)) - 1
	}
	return u
}

// Key returns the width-masked comparison key of v.
func (v Value) Key() Key {
	k := Key{Class: v.class}
	copy(k.Bytes[:v.class.Width()], v.raw[:v.class.Width()])
	return k
}

// Equal compares two values of the same class. Integer classes compare only
// the low Width() bytes; Float compares the full payload. Comparing values
// of different classes is a programming error and panics.
func (v Value) Equal(other Value) bool {
	if v.class != other.class {
		panic(fmt.Sprintf("values: comparing %s value with %s value", v.class, other.class))
	}
	return v.Key() == other.Key()
}

// String formats the value as class:hex.
func (v Value) String() string {
	if v.class.IsFloat() {
		return fmt.Sprintf("%s:%x", v.class, v.raw)
	}
	return fmt.Sprintf("%s:0x%x", v.class, v.Uint64())
}
