// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/moreati/cloudabi-utils/lib/argdata"
)

// Environment variables advertising the argument data handoff to the
// replaced process image.
const (
	// EnvArgdataFd names the descriptor slot holding the encoded
	// argument data.
	EnvArgdataFd = "CLOUDABI_ARGDATA_FD"
	// EnvArgdataLen is the byte length of the encoded argument data.
	EnvArgdataLen = "CLOUDABI_ARGDATA_LEN"
)

// Exec replaces the current process image with the open executable
// exe, handing it the capabilities named by root. The tree is encoded
// internally; every descriptor the tree names is moved onto its
// descriptor array index, so the new image finds descriptor i of the
// argument data at slot i. The encoded buffer is published through a
// memfd at the first slot past the descriptor array, advertised via
// EnvArgdataFd and EnvArgdataLen.
//
// Descriptors are deliberately not close-on-exec: every granted
// capability must survive the replace. Exec returns only on failure.
func Exec(exe *os.File, root *argdata.Value) error {
	buf, fds := root.Encode()

	entries := make(map[int]int, len(fds)+1)
	for i, fd := range fds {
		entries[i] = fd
	}
	argSlot := len(fds)

	memfd, err := NewArgdataFd("argdata", buf)
	if err != nil {
		return err
	}
	entries[argSlot] = memfd

	// Lift the executable above the slot range before the remap can
	// clobber it.
	exeFd, err := LiftDescriptor(int(exe.Fd()), argSlot+1)
	if err != nil {
		return err
	}
	if err := InstallDescriptors(entries); err != nil {
		return err
	}

	return execImage(exeFd, exe.Name(), argSlot, len(buf))
}

// execImage replaces the process image via /proc/self/fd, passing the
// minimal environment the new image needs.
func execImage(exeFd int, name string, argSlot, argLen int) error {
	env := []string{
		"PATH=/usr/local/bin:/usr/bin:/bin",
		EnvArgdataFd + "=" + strconv.Itoa(argSlot),
		EnvArgdataLen + "=" + strconv.Itoa(argLen),
	}
	argv0 := filepath.Base(name)
	err := unix.Exec("/proc/self/fd/"+strconv.Itoa(exeFd), []string{argv0}, env)
	// Exec only ever returns an error.
	return fmt.Errorf("failed to start executable: %w", err)
}

// NewArgdataFd creates a memfd holding data, inheritable across exec.
func NewArgdataFd(name string, data []byte) (int, error) {
	// No MFD_CLOEXEC: the descriptor must survive the replace.
	fd, err := unix.MemfdCreate(name, 0)
	if err != nil {
		return -1, fmt.Errorf("failed to allocate argument data buffer: %w", err)
	}
	for off := 0; off < len(data); {
		n, err := unix.Write(fd, data[off:])
		if err != nil {
			return -1, fmt.Errorf("failed to write argument data: %w", err)
		}
		off += n
	}
	if _, err := unix.Seek(fd, 0, 0); err != nil {
		return -1, fmt.Errorf("failed to rewind argument data: %w", err)
	}
	return fd, nil
}

// LiftDescriptor duplicates fd to a number at or above floor and
// returns the duplicate. The original is left open; the caller is
// about to replace the process image, so the kernel reclaims it.
func LiftDescriptor(fd, floor int) (int, error) {
	nfd, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD, floor)
	if err != nil {
		return -1, fmt.Errorf("failed to duplicate descriptor %d: %w", fd, err)
	}
	return nfd, nil
}

// InstallDescriptors moves each entry's descriptor onto its slot
// number. Sources that sit inside the slot range are first lifted
// above it so no source is closed by a dup onto another entry's slot.
// This is a move, not a duplication: after a successful install the
// slots are the sole owners that matter, and the lifted intermediates
// die with the process image.
func InstallDescriptors(entries map[int]int) error {
	limit := 0
	for slot := range entries {
		if slot >= limit {
			limit = slot + 1
		}
	}

	settled := make(map[int]int, len(entries))
	for slot, fd := range entries {
		if fd < limit && fd != slot {
			lifted, err := LiftDescriptor(fd, limit)
			if err != nil {
				return err
			}
			settled[slot] = lifted
		} else {
			settled[slot] = fd
		}
	}
	for slot, fd := range settled {
		if fd == slot {
			continue
		}
		if err := unix.Dup3(fd, slot, 0); err != nil {
			return fmt.Errorf("failed to install descriptor %d at slot %d: %w", fd, slot, err)
		}
	}
	return nil
}
