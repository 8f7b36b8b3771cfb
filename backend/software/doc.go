// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides a CPU implementation of gpucore.Device.
//
// The device keeps textures as normalized float RGBA texels, samples them
// through the quad transform with nearest or bilinear filtering, quantizes
// every store to the target's storage format and packs reads with the same
// code the GPU backends use. Its output is therefore bit-for-bit
// deterministic, which makes it the reference device for tests and the
// fallback when no GPU adapter is present.
//
// The package registers itself as the "software" backend on import:
//
//	import _ "github.com/gogpu/pixelcopy/backend/software"
package software
