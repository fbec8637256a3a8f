// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package emulator

import "fmt"

// Table maps slot numbers, as embedded in encoded argument data, to
// live file descriptors. Slots are assigned by the dispatcher from the
// descriptor array positions produced during encoding.
type Table struct {
	entries map[int]int
}

// NewTable returns an empty descriptor table.
func NewTable() *Table {
	return &Table{entries: make(map[int]int)}
}

// InsertAt places fd at slot. Negative descriptors or slots, and slots
// that are already occupied, are an error.
func (t *Table) InsertAt(slot, fd int) error {
	if slot < 0 {
		return fmt.Errorf("emulator: invalid table slot %d", slot)
	}
	if fd < 0 {
		return fmt.Errorf("emulator: invalid file descriptor %d for slot %d", fd, slot)
	}
	if _, occupied := t.entries[slot]; occupied {
		return fmt.Errorf("emulator: table slot %d is already occupied", slot)
	}
	t.entries[slot] = fd
	return nil
}

// Get returns the descriptor at slot.
func (t *Table) Get(slot int) (int, bool) {
	fd, ok := t.entries[slot]
	return fd, ok
}

// Len returns the number of occupied slots.
func (t *Table) Len() int {
	return len(t.entries)
}

// Limit returns the first slot number above every occupied slot.
func (t *Table) Limit() int {
	limit := 0
	for slot := range t.entries {
		if slot >= limit {
			limit = slot + 1
		}
	}
	return limit
}

// snapshot copies the slot/descriptor entries.
func (t *Table) snapshot() map[int]int {
	m := make(map[int]int, len(t.entries))
	for slot, fd := range t.entries {
		m[slot] = fd
	}
	return m
}
