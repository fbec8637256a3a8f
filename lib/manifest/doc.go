// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest compiles a YAML manifest into an argument data
// tree.
//
// The manifest is a single YAML document read from the launcher's
// standard input. Plain nodes become strings, maps, and sequences;
// nodes under the tag:nuxi.nl,2015:cloudabi/ namespace (or the !fd,
// !file, and !socket shorthands) become file descriptor capabilities
// resolved through a capability.Resolver. Explicit !!bool, !!int, and
// !!null tags select the corresponding value kinds; untagged scalars
// stay strings, matching event-level YAML semantics where a plain "42"
// carries no resolved tag.
//
// Parsing is recursive descent over a flattened event stream. Any
// malformed construct aborts compilation with a *ParseError carrying
// the 1-based source position; no partially resolved tree is ever
// handed to the dispatcher.
package manifest
