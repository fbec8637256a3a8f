// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"

	"github.com/moreati/cloudabi-utils/lib/argdata"
)

// FromValue projects an argument data tree into CBOR-encodable Go
// values for diagnostic rendering. File descriptor nodes become
// single-entry maps under the "!fd" key. Buffer nodes are walked
// through their lazy iterators and materialized.
//
// The projection is for inspection only: map entry order is not
// preserved (deterministic CBOR sorts keys) and duplicate keys
// collapse to the last entry.
func FromValue(v *argdata.Value) (any, error) {
	switch v.Kind() {
	case argdata.KindNull:
		return nil, nil
	case argdata.KindBool:
		return v.Bool()
	case argdata.KindInt:
		if i, err := v.Int(); err == nil {
			return i, nil
		}
		return v.Uint()
	case argdata.KindStr:
		return v.Str()
	case argdata.KindFd:
		fd, err := v.Descriptor()
		if err != nil {
			return nil, err
		}
		return map[string]any{"!fd": fd}, nil
	case argdata.KindMap:
		return mappingToGo(v)
	case argdata.KindSeq:
		return sequenceToGo(v)
	case argdata.KindBuffer:
		if it, err := v.Sequence(); err == nil {
			return drainSequence(it)
		}
		return mappingToGo(v)
	default:
		return nil, fmt.Errorf("codec: unknown value kind %s", v.Kind())
	}
}

func mappingToGo(v *argdata.Value) (any, error) {
	it, err := v.Mapping()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any)
	for {
		key, value, ok := it.Next()
		if !ok {
			break
		}
		ks, err := key.Str()
		if err != nil {
			return nil, fmt.Errorf("codec: map key is not a string: %w", err)
		}
		gv, err := FromValue(value)
		if err != nil {
			return nil, err
		}
		out[ks] = gv
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func sequenceToGo(v *argdata.Value) (any, error) {
	it, err := v.Sequence()
	if err != nil {
		return nil, err
	}
	return drainSequence(it)
}

func drainSequence(it *argdata.SeqIterator) (any, error) {
	out := []any{}
	for {
		el, ok := it.Next()
		if !ok {
			break
		}
		gv, err := FromValue(el)
		if err != nil {
			return nil, err
		}
		out = append(out, gv)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Diagnostic renders v in CBOR diagnostic notation.
func Diagnostic(v *argdata.Value) (string, error) {
	gv, err := FromValue(v)
	if err != nil {
		return "", err
	}
	data, err := Marshal(gv)
	if err != nil {
		return "", err
	}
	return Diagnose(data)
}
