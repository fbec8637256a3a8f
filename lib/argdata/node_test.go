// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package argdata

import (
	"math"
	"testing"
)

func TestIntNarrowing(t *testing.T) {
	t.Parallel()

	// Magnitudes that fit int64 are stored signed, even when built
	// through Uint.
	v := Uint(42)
	i, err := v.Int()
	if err != nil {
		t.Fatalf("Int() on small Uint: %v", err)
	}
	if i != 42 {
		t.Errorf("expected 42, got %d", i)
	}

	// Magnitudes above MaxInt64 stay unsigned.
	v = Uint(math.MaxUint64)
	if _, err := v.Int(); err == nil {
		t.Error("expected Int() to fail for MaxUint64")
	}
	u, err := v.Uint()
	if err != nil {
		t.Fatalf("Uint() on large Uint: %v", err)
	}
	if u != math.MaxUint64 {
		t.Errorf("expected MaxUint64, got %d", u)
	}

	// Negative values never convert to uint64.
	v = Int(-5)
	if _, err := v.Uint(); err == nil {
		t.Error("expected Uint() to fail for -5")
	}
}

func TestAccessorKindMismatch(t *testing.T) {
	t.Parallel()

	v := Str("hello")
	if _, err := v.Bool(); err == nil {
		t.Error("expected Bool() to fail on a string")
	}
	if _, err := v.Int(); err == nil {
		t.Error("expected Int() to fail on a string")
	}
	if _, err := v.Descriptor(); err == nil {
		t.Error("expected Descriptor() to fail on a string")
	}
	if _, err := v.Entries(); err == nil {
		t.Error("expected Entries() to fail on a string")
	}

	s, err := v.Str()
	if err != nil {
		t.Fatalf("Str(): %v", err)
	}
	if s != "hello" {
		t.Errorf("expected %q, got %q", "hello", s)
	}
}

func TestSharedSingletons(t *testing.T) {
	t.Parallel()

	if Null().Kind() != KindNull {
		t.Error("Null() is not KindNull")
	}
	if b, _ := Bool(true).Bool(); !b {
		t.Error("Bool(true) does not hold true")
	}
	if b, _ := Bool(false).Bool(); b {
		t.Error("Bool(false) does not hold false")
	}
}
