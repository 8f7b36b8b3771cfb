package pixelcopy

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pixelcopy/gpucore"
)

// PixelFormat is the memory layout of a destination bitmap.
type PixelFormat uint8

const (
	// FormatUnknown is treated as RGBA8888 by the GPU path.
	FormatUnknown PixelFormat = iota

	// Alpha8 stores one alpha byte per pixel.
	Alpha8

	// RGB565 stores a little-endian uint16 per pixel: red in the top five
	// bits, green in the middle six, blue in the low five.
	RGB565

	// ARGB4444 stores a little-endian uint16 per pixel with four bits each
	// of red, green, blue and alpha, red in the top nibble.
	ARGB4444

	// RGBA8888 stores red, green, blue and alpha bytes in that order.
	RGBA8888

	// RGBAF16 stores four half floats per pixel.
	RGBAF16
)

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case Alpha8:
		return "Alpha8"
	case RGB565:
		return "RGB565"
	case ARGB4444:
		return "ARGB4444"
	case RGBA8888:
		return "RGBA8888"
	case RGBAF16:
		return "RGBAF16"
	default:
		return "Unknown"
	}
}

// ParsePixelFormat parses a format name as returned by String. Matching
// ignores case.
func ParsePixelFormat(s string) (PixelFormat, error) {
	for f := Alpha8; f <= RGBAF16; f++ {
		if strings.EqualFold(s, f.String()) {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("pixelcopy: unknown pixel format %q", s)
}

// BytesPerPixel returns the pixel size, or 0 for FormatUnknown.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case Alpha8:
		return 1
	case RGB565, ARGB4444:
		return 2
	case RGBA8888:
		return 4
	case RGBAF16:
		return 8
	default:
		return 0
	}
}

// Transfer is the GPU-side description of a bitmap format.
type Transfer struct {
	// Format selects the transferred channels.
	Format gpucore.TransferFormat

	// Internal is the storage format of the render target.
	Internal gputypes.TextureFormat

	// Type is the encoding of transferred channels.
	Type gpucore.DataType
}

// BytesPerPixel returns the size of one transferred pixel.
func (t Transfer) BytesPerPixel() int {
	return gpucore.BytesPerPixel(t.Format, t.Type)
}

// TransferFor maps a bitmap format to its GPU transfer triple.
// It is total: unknown formats map to the RGBA8888 triple.
func TransferFor(f PixelFormat) Transfer {
	switch f {
	case Alpha8:
		return Transfer{Format: gpucore.FormatAlpha, Internal: gputypes.TextureFormatR8Unorm, Type: gpucore.TypeUnsignedByte}
	case RGB565:
		return Transfer{Format: gpucore.FormatRGB, Internal: gputypes.TextureFormatRGBA8Unorm, Type: gpucore.TypeUnsignedShort565}
	case ARGB4444:
		return Transfer{Format: gpucore.FormatRGBA, Internal: gputypes.TextureFormatRGBA8Unorm, Type: gpucore.TypeUnsignedShort4444}
	case RGBAF16:
		return Transfer{Format: gpucore.FormatRGBA, Internal: gputypes.TextureFormatRGBA16Float, Type: gpucore.TypeHalfFloat}
	default:
		return Transfer{Format: gpucore.FormatRGBA, Internal: gputypes.TextureFormatRGBA8Unorm, Type: gpucore.TypeUnsignedByte}
	}
}
