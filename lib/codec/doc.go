// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec renders argument data trees for human inspection.
//
// The binary argument data format is compact and descriptor-bearing;
// it is not meant to be read by people. This package projects a tree
// into plain Go values and prints them in CBOR diagnostic notation
// (RFC 8949 §8), which is what cloudabi-inspect shows. Encoding uses
// Core Deterministic Encoding so the same tree always renders the
// same way.
package codec
