// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package argdata

import "testing"

func TestSeqIteratorInMemory(t *testing.T) {
	t.Parallel()

	seq := Seq([]*Value{Str("a"), Str("b"), Str("c")})
	it, err := seq.Sequence()
	if err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	var got []string
	for {
		el, ok := it.Next()
		if !ok {
			break
		}
		s, err := el.Str()
		if err != nil {
			t.Fatalf("element: %v", err)
		}
		got = append(got, s)
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iteration error: %v", err)
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("iterated %v, want [a b c]", got)
	}

	// Further pulls stay exhausted.
	if _, ok := it.Next(); ok {
		t.Error("iterator restarted after exhaustion")
	}
}

func TestSeqIteratorBufferExhaustion(t *testing.T) {
	t.Parallel()

	buf, _ := Seq([]*Value{Int(1), Int(2), Int(3)}).Encode()
	it, err := Buffer(buf).Sequence()
	if err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	count := 0
	for {
		el, ok := it.Next()
		if !ok {
			break
		}
		if _, err := el.Int(); err != nil {
			t.Fatalf("element %d: %v", count, err)
		}
		count++
	}
	// Exactly the encoded element count, no error flagged.
	if count != 3 {
		t.Errorf("pulled %d elements, want 3", count)
	}
	if err := it.Err(); err != nil {
		t.Errorf("clean exhaustion flagged error: %v", err)
	}
}

func TestSeqIteratorTruncatedBuffer(t *testing.T) {
	t.Parallel()

	buf, _ := Seq([]*Value{Int(300), Str("hello")}).Encode()
	it, err := Buffer(buf[:len(buf)-2]).Sequence()
	if err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	count := 0
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		count++
	}
	// The damaged element reports "no more elements" with the error
	// recorded on the iterator, distinguishable from exhaustion.
	if count != 1 {
		t.Errorf("pulled %d elements before the damage, want 1", count)
	}
	if it.Err() == nil {
		t.Error("truncated buffer did not flag a decode error")
	}

	// The error is sticky.
	if _, ok := it.Next(); ok {
		t.Error("iterator resumed after a decode error")
	}
}

func TestSequenceKindMismatch(t *testing.T) {
	t.Parallel()

	if _, err := Str("x").Sequence(); err == nil {
		t.Error("expected Sequence() to fail on a string")
	}
	if _, err := Int(1).Mapping(); err == nil {
		t.Error("expected Mapping() to fail on an int")
	}

	// A buffer holding a map is not a sequence, and vice versa.
	mapBuf, _ := Map(nil).Encode()
	if _, err := Buffer(mapBuf).Sequence(); err == nil {
		t.Error("expected Sequence() to fail on a map buffer")
	}
	seqBuf, _ := Seq(nil).Encode()
	if _, err := Buffer(seqBuf).Mapping(); err == nil {
		t.Error("expected Mapping() to fail on a sequence buffer")
	}
}

func TestMapIteratorBufferKeyWithoutValue(t *testing.T) {
	t.Parallel()

	// A map buffer holding a single subfield has a key but no value.
	key, _ := Str("orphan").Encode()
	raw := []byte{typeMap}
	raw = append(raw, byte(len(key)))
	raw = append(raw, key...)

	it, err := Buffer(raw).Mapping()
	if err != nil {
		t.Fatalf("Mapping: %v", err)
	}
	if _, _, ok := it.Next(); ok {
		t.Fatal("expected no entry from an orphaned key")
	}
	if it.Err() == nil {
		t.Error("orphaned key did not flag a decode error")
	}
}

func TestMapIteratorInMemory(t *testing.T) {
	t.Parallel()

	m := Map([]Pair{
		{Key: Str("k1"), Value: Int(1)},
		{Key: Str("k1"), Value: Int(2)}, // duplicate keys are allowed
	})
	it, err := m.Mapping()
	if err != nil {
		t.Fatalf("Mapping: %v", err)
	}
	var values []int64
	for {
		_, value, ok := it.Next()
		if !ok {
			break
		}
		i, err := value.Int()
		if err != nil {
			t.Fatalf("value: %v", err)
		}
		values = append(values, i)
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iteration error: %v", err)
	}
	if len(values) != 2 || values[0] != 1 || values[1] != 2 {
		t.Errorf("values %v, want [1 2]", values)
	}
}
