// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package emulator

import (
	"bytes"
	"testing"
)

// patternReader yields an endless repetition of a single byte.
type patternReader byte

func (p patternReader) Read(b []byte) (int, error) {
	for i := range b {
		b[i] = byte(p)
	}
	return len(b), nil
}

func TestUniformDeterministic(t *testing.T) {
	t.Parallel()

	// 0xffffffffffffffff mod 10 == 5, and MaxUint64 is above the
	// rejection threshold for upper=10, so the draw is accepted.
	s := newSourceFrom(patternReader(0xff))
	got, err := s.Uniform(10)
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	if got != 5 {
		t.Errorf("Uniform(10) = %d, want 5", got)
	}
}

func TestUniformRejectsBiasedDraws(t *testing.T) {
	t.Parallel()

	// For upper=3 the draw 0 lies below 2^64 mod 3 == 1 and must be
	// rejected; the next draw, 2, is accepted as-is.
	draws := append(make([]byte, 8), []byte{0, 0, 0, 0, 0, 0, 0, 2}...)
	s := newSourceFrom(bytes.NewReader(draws))
	got, err := s.Uniform(3)
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	if got != 2 {
		t.Errorf("Uniform(3) = %d, want 2", got)
	}
}

func TestUniformBounds(t *testing.T) {
	t.Parallel()

	if _, err := NewSource().Uniform(0); err == nil {
		t.Error("expected error for an empty range")
	}

	s := NewSource()
	for i := 0; i < 100; i++ {
		v, err := s.Uniform(7)
		if err != nil {
			t.Fatalf("Uniform: %v", err)
		}
		if v >= 7 {
			t.Fatalf("Uniform(7) produced %d", v)
		}
	}
}

func TestUniformSingleton(t *testing.T) {
	t.Parallel()

	v, err := NewSource().Uniform(1)
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	if v != 0 {
		t.Errorf("Uniform(1) = %d, want 0", v)
	}
}
