// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"os"
)

// FailureStatus is the fixed exit status for every launcher failure:
// usage errors, parse errors, resource errors, and dispatch errors
// all terminate with this code. Success never returns at all.
const FailureStatus = 127

// Fatal writes "error: err" to stderr and exits with the fixed
// failure status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(FailureStatus)
}
