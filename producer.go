package pixelcopy

import "github.com/gogpu/pixelcopy/gpucore"

// Producer hands over the most recently queued frame.
type Producer interface {
	// LatestBuffer returns the last queued buffer, the fence that signals
	// when its contents are complete and the texture transform the
	// producer applied. A nil buffer means no frame has been produced.
	LatestBuffer() (*SourceBuffer, Fence, gpucore.Matrix4, error)
}

// Layer is a device-resident image that can be copied without import,
// such as an off-screen render layer.
type Layer interface {
	// IsRenderable reports whether the layer has content.
	IsRenderable() bool

	// Texture returns the layer's color texture on the readback device.
	Texture() gpucore.TextureID

	Width() int
	Height() int

	// Transform returns the layer's texture transform.
	Transform() gpucore.Matrix4
}
