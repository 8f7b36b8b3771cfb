// Package gpucore provides the GPU device abstraction used by the pixelcopy
// readback engine.
//
// This package defines the [Device] interface, which abstracts over the
// texture, render target and pixel transfer primitives the engine needs, so
// the same readback algorithm works with:
//   - backend/wgpu (gogpu/wgpu, real GPU through Vulkan/Metal/DX12/GLES)
//   - backend/software (CPU reference device)
//
// # Architecture
//
//	               +------------------+
//	               |    pixelcopy     |
//	               | (Readback engine)|
//	               +--------+---------+
//	                        |
//	                 gpucore.Device
//	                        |
//	         +--------------+--------------+
//	         |                             |
//	+--------v--------+          +--------v--------+
//	|  backend/wgpu   |          |backend/software |
//	|  (gogpu/wgpu)   |          |   (CPU, float)  |
//	+-----------------+          +-----------------+
//
// # Coordinate Contract
//
// A [Quad] draw covers the whole viewport. For a target pixel (x, y) counted
// from the top-left corner of a w x h viewport, the untransformed texture
// coordinate is
//
//	uv = ((x+0.5)/w, 1-(y+0.5)/h)
//
// The sampled coordinate is Transform applied to (uv, 0, 1). Sampled
// coordinate (0, 0) addresses the first texel of the first row of the source
// image, (1, 1) the far corner of its last row. Coordinates outside [0, 1]
// clamp to the edge. With [FlipV] as the transform a draw therefore copies
// the source unchanged.
//
// # Resource IDs
//
// Textures and render targets are opaque uint64 IDs. Each device keeps the
// mapping between IDs and backend resources. Every created resource must be
// released with the matching Destroy method.
package gpucore
