// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

// cloudabi-inspect compiles a manifest without launching anything and
// prints the resulting argument data tree in CBOR diagnostic
// notation. Resource nodes are resolved for real, so the output shows
// the live descriptor numbers a launch would grant.
//
// Usage:
//
//	cloudabi-inspect < manifest.yaml
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/moreati/cloudabi-utils/lib/capability"
	"github.com/moreati/cloudabi-utils/lib/codec"
	"github.com/moreati/cloudabi-utils/lib/manifest"
	"github.com/moreati/cloudabi-utils/lib/process"
)

func main() {
	if len(os.Args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: cloudabi-inspect < manifest.yaml")
		os.Exit(process.FailureStatus)
	}

	logLevel := slog.LevelInfo
	if os.Getenv("CLOUDABI_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	resolver := capability.NewResolver(logger)
	root, err := manifest.Compile(os.Stdin, resolver)
	if err != nil {
		process.Fatal(err)
	}

	diag, err := codec.Diagnostic(root)
	if err != nil {
		process.Fatal(err)
	}
	fmt.Println(diag)
}
