// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

// Package capability resolves manifest-declared resource references
// into live file descriptors.
//
// Three resolution paths exist: an existing descriptor of the
// launching process (validated to be open), a file opened read-only by
// path, and a socket created, bound, and listening on a declared
// address. Each resolved descriptor is exclusively owned by the caller
// until it is handed to the launched program; failures abort the whole
// launch before any descriptor reaches the target.
package capability
