// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build linux

package memory

import (
	"bytes"
	"errors"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/gogpu/pixelcopy/gpucore"
)

func TestSharedMapping(t *testing.T) {
	s, err := NewShared(4, 2, 6)
	if err != nil {
		t.Skipf("memfd unavailable: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	s.Draw(testImage(4, 2))
	m, err := s.DirectMapping()
	if err != nil {
		t.Fatal(err)
	}
	if m.Width != 6 || m.RowBytes != 24 {
		t.Errorf("mapping width %d rowBytes %d, want 6, 24", m.Width, m.RowBytes)
	}

	// A second mapping of the same fd sees the same bytes.
	other, err := unix.Mmap(s.FD(), 0, len(m.Pixels), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = unix.Munmap(other) }()
	if !bytes.Equal(other, m.Pixels) {
		t.Error("second mapping differs")
	}
}

func TestSharedClose(t *testing.T) {
	s, err := NewShared(2, 2, 0)
	if err != nil {
		t.Skipf("memfd unavailable: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if s.FD() != -1 {
		t.Errorf("FD() = %d after Close, want -1", s.FD())
	}
	if _, err := s.DirectMapping(); !errors.Is(err, gpucore.ErrInvalidHandle) {
		t.Errorf("DirectMapping after Close error = %v, want ErrInvalidHandle", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close error = %v", err)
	}
}
