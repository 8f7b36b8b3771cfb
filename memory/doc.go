// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package memory provides buffer memory handles for pixelcopy source
// buffers.
//
// Three layouts are available:
//   - Heap: linear RGBA8 rows in Go memory, directly mappable
//   - Shared: linear rows in a memfd mapping that other processes can
//     map too (Linux only), directly mappable
//   - Opaque: 4x4 tiled layout, importable by a device but not addressable
//     by the CPU, so readbacks always take the GPU path
//
// Every handle stores RGBA8 pixels and validates its own structure before
// handing out views.
package memory
