// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package emulator

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

// Source produces uniformly distributed random numbers for the
// backend's internals. It is constructed explicitly and passed where
// needed rather than kept as process-global state.
type Source struct {
	r io.Reader
}

// NewSource returns a Source drawing from the system entropy pool.
func NewSource() *Source {
	return &Source{r: rand.Reader}
}

// newSourceFrom is the test seam for deterministic randomness.
func newSourceFrom(r io.Reader) *Source {
	return &Source{r: r}
}

// Uniform returns a random number in [0, upper) without modulo bias.
// Values are drawn until one lies in [2^64 % upper, 2^64); that range
// has a length divisible by upper, so reducing it is unbiased.
func (s *Source) Uniform(upper uint64) (uint64, error) {
	if upper == 0 {
		return 0, fmt.Errorf("emulator: uniform bound must be positive")
	}
	// 2^64 % upper == (2^64 - upper) % upper == -upper % upper.
	lower := -upper % upper
	var buf [8]byte
	for {
		if _, err := io.ReadFull(s.r, buf[:]); err != nil {
			return 0, fmt.Errorf("emulator: reading random bytes: %w", err)
		}
		value := binary.BigEndian.Uint64(buf[:])
		if value >= lower {
			return value % upper, nil
		}
	}
}
