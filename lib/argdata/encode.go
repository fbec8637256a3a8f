// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package argdata

import "math"

// Field type bytes. A zero-length field is null and carries no type
// byte.
const (
	typeBool = 0x02
	typeFd   = 0x03
	typeInt  = 0x04
	typeMap  = 0x05
	typeSeq  = 0x06
	typeStr  = 0x07
)

// Measure returns the exact encoded byte length of v and the number of
// file descriptor entries encoding will collect. Encode uses it to
// size both allocations up front; callers may use it to preallocate
// transport buffers.
func (v *Value) Measure() (bufLen, fdCount int) {
	switch v.kind {
	case KindNull:
		return 0, 0
	case KindBool:
		if v.boolean {
			return 2, 0
		}
		return 1, 0
	case KindInt:
		return 1 + v.intPayloadLen(), 0
	case KindStr:
		// Type byte, payload, NUL terminator.
		return 1 + len(v.str) + 1, 0
	case KindFd:
		return 1 + 4, 1
	case KindMap:
		n := 1
		for _, p := range v.pairs {
			kl, _ := p.Key.Measure()
			vl, _ := p.Value.Measure()
			n += varintLen(kl) + kl + varintLen(vl) + vl
		}
		return n, countFds(v)
	case KindSeq:
		n := 1
		for _, e := range v.elems {
			el, _ := e.Measure()
			n += varintLen(el) + el
		}
		return n, countFds(v)
	case KindBuffer:
		// Pre-encoded bytes are embedded verbatim. Any descriptor
		// entries inside refer to the array the buffer was produced
		// with, not to this encoding pass.
		return len(v.raw), 0
	default:
		panic("argdata: unknown kind " + v.kind.String())
	}
}

func countFds(v *Value) int {
	switch v.kind {
	case KindFd:
		return 1
	case KindMap:
		n := 0
		for _, p := range v.pairs {
			n += countFds(p.Key) + countFds(p.Value)
		}
		return n
	case KindSeq:
		n := 0
		for _, e := range v.elems {
			n += countFds(e)
		}
		return n
	default:
		return 0
	}
}

// Encode serializes v into a flat byte buffer and the ordered array of
// file descriptors referenced by the tree. Both are sized by a dry
// Measure traversal and filled in a second traversal, so each is
// allocated exactly once. Descriptors appear in the array in
// depth-first traversal order; the buffer embeds the array index of
// each descriptor rather than its number.
func (v *Value) Encode() ([]byte, []int) {
	bufLen, fdCount := v.Measure()
	e := &encoder{
		buf: make([]byte, bufLen),
		fds: make([]int, 0, fdCount),
	}
	e.putField(v)
	return e.buf, e.fds
}

type encoder struct {
	buf []byte
	off int
	fds []int
}

func (e *encoder) putField(v *Value) {
	switch v.kind {
	case KindNull:
		// Zero-length field.
	case KindBool:
		e.putByte(typeBool)
		if v.boolean {
			e.putByte(0x01)
		}
	case KindInt:
		e.putByte(typeInt)
		e.putIntPayload(v)
	case KindStr:
		e.putByte(typeStr)
		e.off += copy(e.buf[e.off:], v.str)
		e.putByte(0x00)
	case KindFd:
		e.putByte(typeFd)
		index := len(e.fds)
		e.fds = append(e.fds, v.fd)
		e.putByte(byte(index >> 24))
		e.putByte(byte(index >> 16))
		e.putByte(byte(index >> 8))
		e.putByte(byte(index))
	case KindMap:
		e.putByte(typeMap)
		for _, p := range v.pairs {
			e.putSubfield(p.Key)
			e.putSubfield(p.Value)
		}
	case KindSeq:
		e.putByte(typeSeq)
		for _, el := range v.elems {
			e.putSubfield(el)
		}
	case KindBuffer:
		e.off += copy(e.buf[e.off:], v.raw)
	default:
		panic("argdata: unknown kind " + v.kind.String())
	}
}

func (e *encoder) putSubfield(v *Value) {
	n, _ := v.Measure()
	e.putVarint(n)
	e.putField(v)
}

func (e *encoder) putByte(b byte) {
	e.buf[e.off] = b
	e.off++
}

// putVarint writes n in big-endian base-128 with a continuation bit on
// every byte except the last.
func (e *encoder) putVarint(n int) {
	l := varintLen(n)
	for j := l - 1; j >= 0; j-- {
		b := byte(n>>(7*j)) & 0x7f
		if j > 0 {
			b |= 0x80
		}
		e.putByte(b)
	}
}

func varintLen(n int) int {
	l := 1
	for n >= 0x80 {
		n >>= 7
		l++
	}
	return l
}

// intPayloadLen returns the minimal two's complement width of the
// integer payload. Zero encodes as an empty payload; unsigned
// magnitudes above MaxInt64 need a leading zero byte so the sign bit
// stays clear.
func (v *Value) intPayloadLen() int {
	if v.isUnsig {
		return 9
	}
	i := v.integer
	if i == 0 {
		return 0
	}
	for k := 1; k < 8; k++ {
		bound := int64(1) << (8*k - 1)
		if i >= -bound && i < bound {
			return k
		}
	}
	return 8
}

func (e *encoder) putIntPayload(v *Value) {
	if v.isUnsig {
		e.putByte(0x00)
		for j := 7; j >= 0; j-- {
			e.putByte(byte(v.unsigned >> (8 * j)))
		}
		return
	}
	k := v.intPayloadLen()
	for j := k - 1; j >= 0; j-- {
		e.putByte(byte(uint64(v.integer) >> (8 * j)))
	}
}

const maxFdIndex = math.MaxInt32
