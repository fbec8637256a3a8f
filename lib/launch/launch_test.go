// Copyright 2026 The CloudABI Utils Authors
// SPDX-License-Identifier: Apache-2.0

package launch

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/moreati/cloudabi-utils/lib/argdata"
	"github.com/moreati/cloudabi-utils/lib/emulator"
	"github.com/moreati/cloudabi-utils/lib/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildTable(t *testing.T) {
	t.Parallel()

	table, err := BuildTable([]int{9, 4, 9})
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", table.Len())
	}
	for slot, want := range []int{9, 4, 9} {
		fd, ok := table.Get(slot)
		if !ok || fd != want {
			t.Errorf("Get(%d) = %d, %v; want %d, true", slot, fd, ok, want)
		}
	}
}

func TestBuildTableRejectsBadDescriptor(t *testing.T) {
	t.Parallel()

	if _, err := BuildTable([]int{3, -1}); err == nil {
		t.Error("expected error for a negative descriptor")
	}
}

func TestRunEmulatedHandsOffToBackend(t *testing.T) {
	t.Parallel()

	fd := testutil.OpenDescriptor(t)
	root := argdata.Map([]argdata.Pair{
		{Key: argdata.Str("console"), Value: argdata.Fd(fd)},
		{Key: argdata.Str("cmd"), Value: argdata.Seq([]*argdata.Value{argdata.Str("ls")})},
	})

	var (
		gotExe   string
		gotData  []byte
		gotTable *emulator.Table
	)
	sentinel := errors.New("backend reached")
	backend := func(exe *os.File, data []byte, table *emulator.Table) error {
		gotExe = exe.Name()
		gotData = data
		gotTable = table
		_ = exe.Close()
		return sentinel
	}

	err := Run(os.Args[0], root, Options{
		Emulate: true,
		Logger:  discardLogger(),
		Backend: backend,
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Run: %v, want the backend sentinel", err)
	}

	if gotExe != os.Args[0] {
		t.Errorf("backend got executable %q, want %q", gotExe, os.Args[0])
	}

	wantData, wantFds := root.Encode()
	if string(gotData) != string(wantData) {
		t.Error("backend got different bytes than a fresh encode")
	}

	if gotTable.Len() != len(wantFds) {
		t.Fatalf("table holds %d descriptors, want %d", gotTable.Len(), len(wantFds))
	}
	slot0, ok := gotTable.Get(0)
	if !ok || slot0 != fd {
		t.Errorf("table slot 0 = %d, %v; want %d, true", slot0, ok, fd)
	}
}

func TestRunEmulatedMissingExecutable(t *testing.T) {
	t.Parallel()

	backend := func(exe *os.File, data []byte, table *emulator.Table) error {
		t.Error("backend must not run when the executable cannot be opened")
		return nil
	}
	err := Run("/nonexistent/surely/missing", argdata.Null(), Options{
		Emulate: true,
		Logger:  discardLogger(),
		Backend: backend,
	})
	if err == nil {
		t.Fatal("expected error for a missing executable")
	}
}

func TestRunDirectMissingExecutable(t *testing.T) {
	t.Parallel()

	err := Run("/nonexistent/surely/missing", argdata.Null(), Options{
		Logger: discardLogger(),
	})
	if err == nil {
		t.Fatal("expected error for a missing executable")
	}
}
