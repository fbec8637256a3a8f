// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

// Package process implements the capability-aware process replace
// primitive and the launcher's exit conventions.
//
// [Exec] replaces the current process image with an already-open
// executable, granting it exactly the file descriptors named by an
// argument data tree: the tree is encoded, each collected descriptor
// is moved onto its array index, and the encoded buffer is published
// through an inherited memfd advertised in the environment. Exec
// returns only on failure.
//
// [Fatal] is the single failure funnel: every configuration, parse,
// resolution, or dispatch error ends the launcher through it with the
// fixed failure status. Diagnostics go to standard error; standard
// output carries nothing.
package process
