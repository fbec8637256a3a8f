// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package argdata

import (
	"fmt"
	"math"
)

// parseField decodes one complete field. Nested maps and sequences are
// not materialized: they come back as KindBuffer values that decode
// element by element during iteration.
func parseField(buf []byte) (*Value, error) {
	if len(buf) == 0 {
		return Null(), nil
	}
	payload := buf[1:]
	switch buf[0] {
	case typeBool:
		switch {
		case len(payload) == 0:
			return Bool(false), nil
		case len(payload) == 1 && payload[0] == 0x01:
			return Bool(true), nil
		default:
			return nil, fmt.Errorf("argdata: malformed boolean payload")
		}
	case typeFd:
		if len(payload) != 4 {
			return nil, fmt.Errorf("argdata: descriptor field has %d payload bytes, want 4", len(payload))
		}
		index := uint32(payload[0])<<24 | uint32(payload[1])<<16 | uint32(payload[2])<<8 | uint32(payload[3])
		if index > maxFdIndex {
			return nil, fmt.Errorf("argdata: descriptor index %d out of range", index)
		}
		return Fd(int(index)), nil
	case typeInt:
		return parseIntPayload(payload)
	case typeStr:
		if len(payload) == 0 || payload[len(payload)-1] != 0x00 {
			return nil, fmt.Errorf("argdata: string field is not NUL terminated")
		}
		return Str(string(payload[:len(payload)-1])), nil
	case typeMap, typeSeq:
		return Buffer(buf), nil
	default:
		return nil, fmt.Errorf("argdata: unknown field type %#02x", buf[0])
	}
}

// parseIntPayload decodes a minimal big-endian two's complement
// integer. At most nine bytes are meaningful: a leading zero byte lets
// an unsigned 64-bit magnitude keep its sign bit clear.
func parseIntPayload(b []byte) (*Value, error) {
	if len(b) == 0 {
		return Int(0), nil
	}
	if len(b) > 9 || (len(b) == 9 && b[0] != 0x00) {
		return nil, fmt.Errorf("argdata: integer payload of %d bytes does not fit 64 bits", len(b))
	}
	if len(b) >= 2 {
		// Reject redundant leading bytes so every integer has exactly
		// one encoding.
		if (b[0] == 0x00 && b[1]&0x80 == 0) || (b[0] == 0xff && b[1]&0x80 != 0) {
			return nil, fmt.Errorf("argdata: integer payload is not minimally encoded")
		}
	}
	if b[0]&0x80 != 0 {
		i := int64(-1)
		for _, c := range b {
			i = i<<8 | int64(c)
		}
		return Int(i), nil
	}
	var u uint64
	for _, c := range b {
		u = u<<8 | uint64(c)
	}
	return Uint(u), nil
}

// parseSubfield decodes the length-prefixed field at the start of buf
// and returns the remaining bytes.
func parseSubfield(buf []byte) (*Value, []byte, error) {
	var n uint64
	i := 0
	for {
		if i >= len(buf) {
			return nil, nil, fmt.Errorf("argdata: truncated subfield length")
		}
		c := buf[i]
		i++
		n = n<<7 | uint64(c&0x7f)
		if c&0x80 == 0 {
			break
		}
		if n > math.MaxInt32 {
			return nil, nil, fmt.Errorf("argdata: subfield length out of range")
		}
	}
	rest := buf[i:]
	if uint64(len(rest)) < n {
		return nil, nil, fmt.Errorf("argdata: subfield of %d bytes exceeds remaining %d", n, len(rest))
	}
	v, err := parseField(rest[:n])
	if err != nil {
		return nil, nil, err
	}
	return v, rest[n:], nil
}
