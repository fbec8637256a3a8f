// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package emulator

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/moreati/cloudabi-utils/lib/process"
)

// Config holds configuration for creating an Emulator.
type Config struct {
	// Random supplies the backend's randomness. Defaults to the
	// system entropy pool.
	Random *Source

	// Logger for backend operations.
	Logger *slog.Logger
}

// Emulator is the emulation backend entrypoint.
type Emulator struct {
	random *Source
	logger *slog.Logger
}

// New creates an Emulator.
func New(config Config) *Emulator {
	random := config.Random
	if random == nil {
		random = NewSource()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Emulator{random: random, logger: logger}
}

// Run starts exe in the current process with exactly the descriptors
// in table installed at their slot numbers, and the encoded argument
// data published at the first free slot. It takes over the thread and
// returns only on failure.
func (e *Emulator) Run(exe *os.File, data []byte, table *Table) error {
	// Validate the image before tearing up the descriptor space.
	if err := checkImage(exe); err != nil {
		return err
	}

	suffix, err := e.random.Uniform(1 << 32)
	if err != nil {
		return err
	}
	memfd, err := process.NewArgdataFd(fmt.Sprintf("argdata.%08x", suffix), data)
	if err != nil {
		return err
	}

	entries := table.snapshot()
	argSlot := table.Limit()
	entries[argSlot] = memfd

	exeFd, err := process.LiftDescriptor(int(exe.Fd()), argSlot+1)
	if err != nil {
		return err
	}

	e.logger.Debug("entering emulation backend",
		"executable", exe.Name(),
		"descriptors", table.Len(),
		"argdata_slot", argSlot,
		"argdata_len", len(data),
	)

	if err := process.InstallDescriptors(entries); err != nil {
		return err
	}

	env := []string{
		"PATH=/usr/local/bin:/usr/bin:/bin",
		process.EnvArgdataFd + "=" + strconv.Itoa(argSlot),
		process.EnvArgdataLen + "=" + strconv.Itoa(len(data)),
	}
	argv0 := filepath.Base(exe.Name())
	err = unix.Exec("/proc/self/fd/"+strconv.Itoa(exeFd), []string{argv0}, env)
	return fmt.Errorf("failed to start executable: %w", err)
}

// checkImage reads the executable header to fail early on images the
// kernel would reject anyway.
func checkImage(exe *os.File) error {
	var magic [4]byte
	if _, err := exe.ReadAt(magic[:], 0); err != nil {
		return fmt.Errorf("failed to read executable header: %w", err)
	}
	if magic != [4]byte{0x7f, 'E', 'L', 'F'} {
		return fmt.Errorf("%s is not an executable image", exe.Name())
	}
	return nil
}
