// Package pixelcopy reads GPU surface frames back into CPU bitmaps.
//
// # Overview
//
// A producer (video decoder, camera, off-screen renderer) queues buffers
// whose memory is owned by the GPU driver and whose contents may still be
// in flight. pixelcopy waits on the buffer's fence, then either copies the
// memory directly when its layout is CPU addressable, or imports it as a
// texture and renders it into an off-screen target of the bitmap's size and
// format before reading the pixels back.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/pixelcopy"
//		"github.com/gogpu/pixelcopy/backend"
//		_ "github.com/gogpu/pixelcopy/backend/software"
//		_ "github.com/gogpu/pixelcopy/backend/wgpu"
//	)
//
//	b, err := backend.Open("")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	rb := pixelcopy.New(b.Device())
//	bm := pixelcopy.NewPixmap(320, 240, pixelcopy.RGB565)
//	res := rb.CopySurfaceInto(queue, image.Rectangle{}, bm)
//
// # Paths
//
// The fast path runs when Config.PrivateReadback is set, the buffer's
// memory implements DirectMapper, the bitmap is RGBA8888, the transform is
// the default readback transform (gpucore.FlipV) and no scaling is needed.
// Everything else goes through the device. Skipping the fast path is not an
// error and is never reported.
//
// # Results
//
// Every copy returns exactly one CopyResult. Anything other than Success
// leaves the bitmap contents undefined.
//
// # Coordinate System
//
// Crop rectangles use source pixel coordinates with the origin at the
// top-left of the buffer. An empty rectangle selects the whole buffer.
package pixelcopy

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
