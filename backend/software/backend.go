// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"github.com/gogpu/pixelcopy/backend"
	"github.com/gogpu/pixelcopy/gpucore"
)

// init registers the software backend on package import.
func init() {
	backend.Register(backend.BackendSoftware, func() backend.Backend {
		return NewBackend()
	})
}

// Backend wraps a software Device for the backend registry.
type Backend struct {
	opts []Option
	dev  *Device
}

// NewBackend creates an uninitialized software backend. The options are
// applied to the device created by Init.
func NewBackend(opts ...Option) *Backend {
	return &Backend{opts: opts}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendSoftware
}

// Init creates the device. It never fails.
func (b *Backend) Init() error {
	if b.dev == nil {
		b.dev = New(b.opts...)
	}
	return nil
}

// Device returns the device, or nil before Init.
func (b *Backend) Device() gpucore.Device {
	if b.dev == nil {
		return nil
	}
	return b.dev
}

// Close releases the device.
func (b *Backend) Close() {
	if b.dev != nil {
		b.dev.Close()
		b.dev = nil
	}
}
