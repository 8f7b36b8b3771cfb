// Package wgpu implements gpucore.Device on top of gogpu/wgpu.
//
// The device renders readback quads with a single full-screen blit
// pipeline compiled from WGSL by gogpu/naga, and copies render targets
// back to the CPU through a mapped staging buffer. Render targets may be
// R8Unorm, RGBA8Unorm or RGBA16Float; imported images are RGBA8Unorm.
//
// Importing this package registers the "wgpu" backend:
//
//	import _ "github.com/gogpu/pixelcopy/backend/wgpu"
//
// Init fails with backend.ErrBackendNotAvailable when no adapter can be
// found, so callers using backend.InitDefault fall through to the
// software backend on headless machines.
package wgpu
