package gpucore

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Resource IDs
//
// These opaque IDs represent GPU resources. Each device implementation
// maintains a mapping between IDs and actual backend resources.

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// RenderTargetID is an opaque handle to a render target (framebuffer)
// wrapping one color texture.
type RenderTargetID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// TransferFormat selects which channels a pixel transfer carries.
type TransferFormat uint8

// Transfer formats.
const (
	// FormatRGBA transfers all four channels.
	FormatRGBA TransferFormat = iota

	// FormatRGB transfers red, green and blue.
	FormatRGB

	// FormatAlpha transfers the alpha channel only.
	FormatAlpha
)

// String returns the transfer format name.
func (f TransferFormat) String() string {
	switch f {
	case FormatRGBA:
		return "RGBA"
	case FormatRGB:
		return "RGB"
	case FormatAlpha:
		return "Alpha"
	default:
		return "Unknown"
	}
}

// Channels returns the number of channels carried by the format.
func (f TransferFormat) Channels() int {
	switch f {
	case FormatRGB:
		return 3
	case FormatAlpha:
		return 1
	default:
		return 4
	}
}

// DataType selects the in-memory encoding of transferred channels.
type DataType uint8

// Data types.
const (
	// TypeUnsignedByte stores one normalized byte per channel.
	TypeUnsignedByte DataType = iota

	// TypeUnsignedShort565 packs RGB into a little-endian uint16:
	// red in bits 11-15, green in bits 5-10, blue in bits 0-4.
	TypeUnsignedShort565

	// TypeUnsignedShort4444 packs RGBA into a little-endian uint16:
	// red in bits 12-15, green 8-11, blue 4-7, alpha 0-3.
	TypeUnsignedShort4444

	// TypeHalfFloat stores one IEEE 754 binary16 value per channel.
	TypeHalfFloat
)

// String returns the data type name.
func (t DataType) String() string {
	switch t {
	case TypeUnsignedByte:
		return "UnsignedByte"
	case TypeUnsignedShort565:
		return "UnsignedShort565"
	case TypeUnsignedShort4444:
		return "UnsignedShort4444"
	case TypeHalfFloat:
		return "HalfFloat"
	default:
		return "Unknown"
	}
}

// BytesPerPixel returns the size of one pixel transferred with the given
// format and type. Packed types ignore the channel count.
func BytesPerPixel(f TransferFormat, t DataType) int {
	switch t {
	case TypeUnsignedShort565, TypeUnsignedShort4444:
		return 2
	case TypeHalfFloat:
		return 2 * f.Channels()
	default:
		return f.Channels()
	}
}

// TextureDescriptor describes a texture created by [Device.CreateTexture].
type TextureDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Width is the texture width in pixels.
	Width int

	// Height is the texture height in pixels.
	Height int

	// Format is the internal storage format.
	Format gputypes.TextureFormat
}

// Capabilities describes what a device can do.
type Capabilities struct {
	// MaxTextureSize is the largest texture dimension the device accepts.
	MaxTextureSize int

	// RenderableFloat reports whether half-float textures can be render
	// targets.
	RenderableFloat bool

	// Adapter identifies the physical adapter behind the device.
	Adapter gpucontext.AdapterInfo
}

// Quad describes one full-viewport textured draw.
// See the package documentation for the coordinate contract.
type Quad struct {
	// Source is the sampled texture.
	Source TextureID

	// Transform maps viewport texture coordinates to source coordinates.
	Transform Matrix4

	// Filter is the sampling filter. FilterModeNearest picks the texel
	// containing the sampled coordinate; FilterModeLinear blends the four
	// nearest texel centers.
	Filter gputypes.FilterMode
}

// PixelPack describes how [Device.ReadPixels] lays out pixels in memory.
type PixelPack struct {
	Format TransferFormat
	Type   DataType

	// Alignment is the row start alignment in bytes (1, 2, 4 or 8).
	Alignment int

	// RowBytes is the distance between rows in the destination.
	// Zero means tightly packed rows rounded up to Alignment.
	RowBytes int
}

// BytesPerPixel returns the size of one packed pixel.
func (p PixelPack) BytesPerPixel() int {
	return BytesPerPixel(p.Format, p.Type)
}

// Stride returns the destination row pitch for an image of the given width.
func (p PixelPack) Stride(width int) int {
	if p.RowBytes > 0 {
		return p.RowBytes
	}
	n := width * p.BytesPerPixel()
	if a := p.Alignment; a > 1 {
		n = (n + a - 1) / a * a
	}
	return n
}

// ImageData is a CPU view of RGBA8 pixel rows.
//
// Width and Height are the addressable dimensions. RowBytes may exceed
// Width*4 when rows are padded by the allocator.
type ImageData struct {
	Pixels   []byte
	Width    int
	Height   int
	RowBytes int
}

// Row returns the bytes of row y, or nil when y is out of range or the
// pixel slice is too short.
func (d ImageData) Row(y int) []byte {
	if y < 0 || y >= d.Height {
		return nil
	}
	off := y * d.RowBytes
	end := off + d.Width*4
	if end > len(d.Pixels) {
		return nil
	}
	return d.Pixels[off:end]
}

// Valid reports whether the view is structurally consistent.
func (d ImageData) Valid() bool {
	if d.Width <= 0 || d.Height <= 0 || d.RowBytes < d.Width*4 {
		return false
	}
	return len(d.Pixels) >= d.RowBytes*(d.Height-1)+d.Width*4
}

// ExternalImage is a foreign allocation a device can import as a sampled
// texture.
type ExternalImage interface {
	// Texels returns the RGBA8 contents of the image.
	Texels() (ImageData, error)
}
