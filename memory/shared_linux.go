// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build linux

package memory

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/gogpu/pixelcopy"
)

// Shared is a linear RGBA8 buffer in an anonymous memfd mapping. The file
// descriptor can be passed to another process, which maps the same pages.
type Shared struct {
	linear
	fd int
}

var (
	_ Handle                 = (*Shared)(nil)
	_ pixelcopy.DirectMapper = (*Shared)(nil)
)

// NewShared creates and maps a width x height buffer with the given stride
// in pixels. A stride of zero means width.
func NewShared(width, height, stride int) (*Shared, error) {
	if stride == 0 {
		stride = width
	}
	if err := checkDims(width, height, stride); err != nil {
		return nil, err
	}
	size := stride * 4 * height

	fd, err := unix.MemfdCreate("pixelcopy-buffer", unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("memory: memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("memory: ftruncate: %w", err)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("memory: mmap: %w", err)
	}

	return &Shared{
		linear: linear{width: width, height: height, stride: stride, pix: data},
		fd:     fd,
	}, nil
}

// FD returns the memfd backing the buffer, or -1 after Close.
func (s *Shared) FD() int {
	return s.fd
}

// Close unmaps the buffer and closes the file descriptor. Views returned
// earlier must not be used afterwards.
func (s *Shared) Close() error {
	if s.pix != nil {
		if err := unix.Munmap(s.pix); err != nil {
			return fmt.Errorf("memory: munmap: %w", err)
		}
		s.pix = nil
	}
	if s.fd >= 0 {
		if err := unix.Close(s.fd); err != nil {
			return fmt.Errorf("memory: close: %w", err)
		}
		s.fd = -1
	}
	return nil
}
