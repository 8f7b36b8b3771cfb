package pixelcopy

import "github.com/gogpu/pixelcopy/gpucore"

// UsageFlags describes how a source buffer was allocated.
type UsageFlags uint32

// Usage flags.
const (
	// UsageProtected marks DRM-protected content. Protected buffers are
	// never read back.
	UsageProtected UsageFlags = 1 << iota

	// UsageCPURead marks buffers allocated for CPU reads.
	UsageCPURead

	// UsageSampled marks buffers the GPU can sample.
	UsageSampled
)

// SourceBuffer is one frame handed over by a producer. It is borrowed for
// the duration of a call and never retained.
type SourceBuffer struct {
	// Width and Height are the logical image size in pixels.
	Width  int
	Height int

	// Stride is the allocated row length in pixels, at least Width.
	// Zero means Width.
	Stride int

	Usage UsageFlags

	// Memory is the platform handle backing the pixels. The GPU path
	// imports it; the fast path maps it when it implements DirectMapper.
	Memory gpucore.ExternalImage
}

// stride returns the allocated row length in pixels.
func (b *SourceBuffer) stride() int {
	if b.Stride > 0 {
		return b.Stride
	}
	return b.Width
}

// Protected reports whether the buffer holds protected content.
func (b *SourceBuffer) Protected() bool {
	return b.Usage&UsageProtected != 0
}

// DirectMapper is implemented by memory whose RGBA8 layout the CPU can
// address in place.
type DirectMapper interface {
	// DirectMapping returns the allocation as a CPU view whose Width is
	// the allocated row length. It returns gpucore.ErrNotDirectlyMappable
	// when the layout is vendor specific, and any other error when the
	// handle is malformed.
	DirectMapping() (gpucore.ImageData, error)
}
