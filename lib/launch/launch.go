// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

// Package launch dispatches a compiled argument data tree to the
// target program, either by direct process replacement or through the
// emulation backend.
package launch

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/moreati/cloudabi-utils/lib/argdata"
	"github.com/moreati/cloudabi-utils/lib/emulator"
	"github.com/moreati/cloudabi-utils/lib/process"
)

// Backend is the emulation backend entrypoint: it takes over the
// thread and returns only on failure.
type Backend func(exe *os.File, data []byte, table *emulator.Table) error

// Options selects the execution mode.
type Options struct {
	// Emulate selects the emulation backend instead of direct
	// process replacement.
	Emulate bool

	// Logger for dispatch operations.
	Logger *slog.Logger

	// Backend overrides the emulation entrypoint. Defaults to the
	// emulator package. Tests substitute this to observe the handoff
	// without replacing the process.
	Backend Backend
}

// Run hands the compiled tree to the target program at path. On
// success it does not return: the process image is replaced or the
// backend takes over the thread. Any returned error means the launch
// failed.
func Run(path string, root *argdata.Value, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Emulate {
		backend := opts.Backend
		if backend == nil {
			backend = emulator.New(emulator.Config{Logger: logger}).Run
		}
		return runEmulated(path, root, logger, backend)
	}
	return runDirect(path, root, logger)
}

// runDirect opens the target and invokes the native process replace
// primitive, which encodes the tree itself.
func runDirect(path string, root *argdata.Value, logger *slog.Logger) error {
	// Linux has no O_EXEC open mode for regular files; read access
	// suffices for the /proc based replace.
	exe, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open executable: %w", err)
	}
	logger.Debug("replacing process image", "executable", path)
	return process.Exec(exe, root)
}

// runEmulated encodes the tree once, builds the descriptor table, and
// transfers control to the emulation backend.
func runEmulated(path string, root *argdata.Value, logger *slog.Logger, backend Backend) error {
	data, fds := root.Encode()
	table, err := BuildTable(fds)
	if err != nil {
		return err
	}
	exe, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open executable: %w", err)
	}
	logger.Warn("starting executable using emulation; the emulator provides no actual sandboxing and is strongly discouraged outside development and testing")
	return backend(exe, data, table)
}

// BuildTable inserts each descriptor array entry at its array index,
// producing the table the backend installs. A failed insertion is
// fatal to the launch.
func BuildTable(fds []int) (*emulator.Table, error) {
	table := emulator.NewTable()
	for slot, fd := range fds {
		if err := table.InsertAt(slot, fd); err != nil {
			return nil, fmt.Errorf("failed to register file descriptor in argument data: %w", err)
		}
	}
	return table, nil
}
