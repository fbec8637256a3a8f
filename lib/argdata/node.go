// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package argdata

import (
	"fmt"
	"math"
)

// Kind identifies the variant held by a Value. The set is closed:
// every consumer (encoding, iteration, dispatch) switches over it
// exhaustively.
type Kind uint8

const (
	// KindNull is the absent value.
	KindNull Kind = iota
	// KindBool is a boolean.
	KindBool
	// KindInt is an integer, stored as the narrowest of int64 and
	// uint64 that fits the literal.
	KindInt
	// KindStr is a byte string.
	KindStr
	// KindFd names a file descriptor. The tree does not own the
	// descriptor; it is process-global state tracked by whoever
	// resolved it.
	KindFd
	// KindMap is an ordered list of key/value pairs. Insertion order
	// is preserved and keys are not checked for uniqueness.
	KindMap
	// KindSeq is an ordered list of values.
	KindSeq
	// KindBuffer is a pre-encoded map or sequence that has not been
	// materialized. Its elements decode one at a time during
	// iteration.
	KindBuffer
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindStr:
		return "str"
	case KindFd:
		return "fd"
	case KindMap:
		return "map"
	case KindSeq:
		return "seq"
	case KindBuffer:
		return "buffer"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Pair is one map entry.
type Pair struct {
	Key   *Value
	Value *Value
}

// Value is one node of an argument data tree. Values are immutable
// once constructed. Map and Seq values exclusively own their children;
// there is no sharing between trees.
type Value struct {
	kind     Kind
	boolean  bool
	integer  int64
	unsigned uint64
	isUnsig  bool
	str      string
	fd       int
	pairs    []Pair
	elems    []*Value
	raw      []byte
}

var (
	nullValue  = &Value{kind: KindNull}
	trueValue  = &Value{kind: KindBool, boolean: true}
	falseValue = &Value{kind: KindBool}
)

// Null returns the null value.
func Null() *Value { return nullValue }

// Bool returns a boolean value.
func Bool(b bool) *Value {
	if b {
		return trueValue
	}
	return falseValue
}

// Int returns a signed integer value.
func Int(v int64) *Value {
	return &Value{kind: KindInt, integer: v}
}

// Uint returns an integer value. Magnitudes that fit int64 are stored
// signed; larger ones remain unsigned.
func Uint(v uint64) *Value {
	if v <= math.MaxInt64 {
		return &Value{kind: KindInt, integer: int64(v)}
	}
	return &Value{kind: KindInt, unsigned: v, isUnsig: true}
}

// Str returns a string value holding s verbatim.
func Str(s string) *Value {
	return &Value{kind: KindStr, str: s}
}

// Fd returns a value naming the file descriptor fd.
func Fd(fd int) *Value {
	return &Value{kind: KindFd, fd: fd}
}

// Map returns a map value over pairs. The pairs slice is owned by the
// returned value and must not be modified afterwards.
func Map(pairs []Pair) *Value {
	return &Value{kind: KindMap, pairs: pairs}
}

// Seq returns a sequence value over elems. The elems slice is owned by
// the returned value and must not be modified afterwards.
func Seq(elems []*Value) *Value {
	return &Value{kind: KindSeq, elems: elems}
}

// Buffer returns a value over a pre-encoded field. The bytes must be a
// complete encoded map or sequence field; they are validated when the
// value is iterated, not here.
func Buffer(raw []byte) *Value {
	return &Value{kind: KindBuffer, raw: raw}
}

// Kind returns the variant held by v.
func (v *Value) Kind() Kind { return v.kind }

// Str returns the string payload, or an error for other kinds.
func (v *Value) Str() (string, error) {
	if v.kind != KindStr {
		return "", fmt.Errorf("argdata: value is %s, not str", v.kind)
	}
	return v.str, nil
}

// Bool returns the boolean payload, or an error for other kinds.
func (v *Value) Bool() (bool, error) {
	if v.kind != KindBool {
		return false, fmt.Errorf("argdata: value is %s, not bool", v.kind)
	}
	return v.boolean, nil
}

// Int returns the integer payload as int64. Unsigned magnitudes above
// MaxInt64 are an error.
func (v *Value) Int() (int64, error) {
	if v.kind != KindInt {
		return 0, fmt.Errorf("argdata: value is %s, not int", v.kind)
	}
	if v.isUnsig {
		return 0, fmt.Errorf("argdata: integer %d does not fit int64", v.unsigned)
	}
	return v.integer, nil
}

// Uint returns the integer payload as uint64. Negative values are an
// error.
func (v *Value) Uint() (uint64, error) {
	if v.kind != KindInt {
		return 0, fmt.Errorf("argdata: value is %s, not int", v.kind)
	}
	if v.isUnsig {
		return v.unsigned, nil
	}
	if v.integer < 0 {
		return 0, fmt.Errorf("argdata: integer %d does not fit uint64", v.integer)
	}
	return uint64(v.integer), nil
}

// Descriptor returns the file descriptor number held by a KindFd
// value. For values decoded from a buffer this is the index into the
// descriptor array produced alongside the buffer.
func (v *Value) Descriptor() (int, error) {
	if v.kind != KindFd {
		return 0, fmt.Errorf("argdata: value is %s, not fd", v.kind)
	}
	return v.fd, nil
}

// Entries returns the pairs of a map value.
func (v *Value) Entries() ([]Pair, error) {
	if v.kind != KindMap {
		return nil, fmt.Errorf("argdata: value is %s, not map", v.kind)
	}
	return v.pairs, nil
}

// Elements returns the elements of a sequence value.
func (v *Value) Elements() ([]*Value, error) {
	if v.kind != KindSeq {
		return nil, fmt.Errorf("argdata: value is %s, not seq", v.kind)
	}
	return v.elems, nil
}
