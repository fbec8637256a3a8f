// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package argdata

import "fmt"

// SeqIterator walks the elements of a sequence one pull at a time. The
// same surface covers in-memory sequences (an index walk) and buffer
// values (incremental decoding at an advancing offset), so large
// sequences stay unparsed until walked.
//
// After Next reports false, callers must consult Err to distinguish
// clean exhaustion from a decode failure partway through a buffer.
type SeqIterator struct {
	elems    []*Value
	index    int
	buf      []byte
	buffered bool
	err      error
}

// Sequence returns an iterator over v, which must be a sequence or a
// buffer holding an encoded sequence.
func (v *Value) Sequence() (*SeqIterator, error) {
	switch v.kind {
	case KindSeq:
		return &SeqIterator{elems: v.elems}, nil
	case KindBuffer:
		if len(v.raw) == 0 || v.raw[0] != typeSeq {
			return nil, fmt.Errorf("argdata: buffer does not hold a sequence")
		}
		return &SeqIterator{buf: v.raw[1:], buffered: true}, nil
	default:
		return nil, fmt.Errorf("argdata: value is %s, not a sequence", v.kind)
	}
}

// Next returns the next element. It reports false when the sequence is
// exhausted or a buffer element fails to decode; Err tells the two
// apart.
func (it *SeqIterator) Next() (*Value, bool) {
	if it.err != nil {
		return nil, false
	}
	if it.buffered {
		if len(it.buf) == 0 {
			return nil, false
		}
		v, rest, err := parseSubfield(it.buf)
		if err != nil {
			it.err = err
			return nil, false
		}
		it.buf = rest
		return v, true
	}
	if it.index >= len(it.elems) {
		return nil, false
	}
	v := it.elems[it.index]
	it.index++
	return v, true
}

// Err returns the decode error that stopped iteration, or nil.
func (it *SeqIterator) Err() error { return it.err }

// MapIterator walks the entries of a map one pull at a time, with the
// same in-memory/buffer duality as SeqIterator.
type MapIterator struct {
	pairs    []Pair
	index    int
	buf      []byte
	buffered bool
	err      error
}

// Mapping returns an iterator over v, which must be a map or a buffer
// holding an encoded map.
func (v *Value) Mapping() (*MapIterator, error) {
	switch v.kind {
	case KindMap:
		return &MapIterator{pairs: v.pairs}, nil
	case KindBuffer:
		if len(v.raw) == 0 || v.raw[0] != typeMap {
			return nil, fmt.Errorf("argdata: buffer does not hold a map")
		}
		return &MapIterator{buf: v.raw[1:], buffered: true}, nil
	default:
		return nil, fmt.Errorf("argdata: value is %s, not a map", v.kind)
	}
}

// Next returns the next entry. It reports false on exhaustion or
// decode failure; Err tells the two apart.
func (it *MapIterator) Next() (key, value *Value, ok bool) {
	if it.err != nil {
		return nil, nil, false
	}
	if it.buffered {
		if len(it.buf) == 0 {
			return nil, nil, false
		}
		k, rest, err := parseSubfield(it.buf)
		if err != nil {
			it.err = err
			return nil, nil, false
		}
		if len(rest) == 0 {
			it.err = fmt.Errorf("argdata: map buffer holds a key without a value")
			return nil, nil, false
		}
		v, rest, err := parseSubfield(rest)
		if err != nil {
			it.err = err
			return nil, nil, false
		}
		it.buf = rest
		return k, v, true
	}
	if it.index >= len(it.pairs) {
		return nil, nil, false
	}
	p := it.pairs[it.index]
	it.index++
	return p.Key, p.Value, true
}

// Err returns the decode error that stopped iteration, or nil.
func (it *MapIterator) Err() error { return it.err }
