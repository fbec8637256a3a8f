// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

// Package emulator is the entrypoint of the emulation backend: it
// takes an open executable, an encoded argument data buffer, and an
// explicitly constructed descriptor table, and starts the program in
// the current process with exactly those descriptors installed.
//
// This backend provides no actual sandboxing. The launcher warns
// before entering it; it exists for development and testing, not for
// production confinement.
//
// The descriptor table is a one-way ownership move: descriptors placed
// in a [Table] belong to the table, and Run moves them onto their slot
// numbers in the process descriptor space before handing over the
// thread. Run returns only on failure.
package emulator
