// Package backend provides a pluggable GPU device abstraction for readback.
//
// A backend owns one [gpucore.Device]. The readback engine only talks to the
// device, so the same copy logic runs on real GPUs and on the CPU reference
// implementation.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// Import the backends you want to make available:
//
//	import (
//		_ "github.com/gogpu/pixelcopy/backend/software"
//		_ "github.com/gogpu/pixelcopy/backend/wgpu"
//	)
//
// # Backend Selection
//
// Use InitDefault() to get the best backend that initializes on this
// machine, or Open() to request a specific backend by name:
//
//	b, err := backend.Open("") // best available
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	rb := pixelcopy.New(b.Device())
//
// # Available Backends
//
// - "wgpu": GPU via gogpu/wgpu (Vulkan, Metal, DX12, GLES)
// - "software": CPU reference device (always available)
package backend
