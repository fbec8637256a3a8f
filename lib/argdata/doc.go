// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

// Package argdata implements the binary argument data format used to
// pass structured configuration, including file descriptors, to a
// capability-confined program.
//
// A [Value] is an immutable node in a tree of nulls, booleans,
// integers, strings, file descriptors, maps, and sequences. Trees are
// built once from a manifest, encoded once with [Value.Encode], and
// consumed by the launched program.
//
// The wire format is self-describing. Every field is a type byte
// followed by a payload; a zero-length field is null. Fields nested
// inside maps and sequences are prefixed with their byte length so a
// reader can skip or lazily decode them. File descriptors are not
// stored in the byte buffer directly: encoding collects them into a
// side array in traversal order and embeds the array index, so the
// consumer controls how descriptor numbers map into the new process.
//
// Decoding is lazy. Parsing a buffer that contains a nested map or
// sequence yields a [KindBuffer] node holding the raw bytes; the
// elements are only materialized when walked with [Value.Sequence] or
// [Value.Mapping], one pull at a time.
package argdata
