// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !linux

package memory

import (
	"errors"

	"github.com/gogpu/pixelcopy"
)

// ErrSharedUnsupported is returned by NewShared on platforms without memfd.
var ErrSharedUnsupported = errors.New("memory: shared buffers require linux")

// Shared is a memfd-backed buffer. It is only available on Linux.
type Shared struct {
	linear
}

var _ pixelcopy.DirectMapper = (*Shared)(nil)

// NewShared always fails on this platform.
func NewShared(width, height, stride int) (*Shared, error) {
	return nil, ErrSharedUnsupported
}

// FD returns -1.
func (s *Shared) FD() int { return -1 }

// Close is a no-op.
func (s *Shared) Close() error { return nil }
