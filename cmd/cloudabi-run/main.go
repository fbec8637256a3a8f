// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

// cloudabi-run executes capability-confined programs safely.
//
// It reads a YAML manifest from standard input describing exactly
// which resources the program may access, resolves them into file
// descriptors, and starts the program with that descriptor set and
// nothing else.
//
// Usage:
//
//	cloudabi-run [-e] executable
//
// With -e the program runs through the emulation backend instead of
// replacing the process image directly. The emulator performs no
// actual sandboxing and is meant for development and testing only.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/moreati/cloudabi-utils/lib/capability"
	"github.com/moreati/cloudabi-utils/lib/launch"
	"github.com/moreati/cloudabi-utils/lib/manifest"
	"github.com/moreati/cloudabi-utils/lib/process"
)

func main() {
	fs := pflag.NewFlagSet("cloudabi-run", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	emulate := fs.BoolP("emulate", "e", false, "run the program using emulation")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: cloudabi-run [-e] executable")
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		fs.Usage()
		os.Exit(process.FailureStatus)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(process.FailureStatus)
	}
	executable := fs.Arg(0)

	// All diagnostics go to stderr; stdout carries nothing.
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

	// Run does not return on success: the process image is replaced,
	// or the emulation backend takes over the thread.
	err = launch.Run(executable, root, launch.Options{
		Emulate: *emulate,
		Logger:  logger,
	})
	process.Fatal(err)
}
