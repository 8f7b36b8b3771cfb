// Package pack converts normalized float RGBA texels into the byte layouts
// used by pixel transfers.
package pack

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/x448/float16"

	"github.com/gogpu/pixelcopy/gpucore"
)

// ErrShortBuffer is returned when the destination cannot hold the image.
var ErrShortBuffer = errors.New("pack: destination buffer too small")

// Unorm8 quantizes v in [0, 1] to a byte, rounding to nearest.
func Unorm8(v float32) uint8 {
	return uint8(math32.Round(clamp01(v) * 255))
}

// unormN quantizes v to an n-level integer.
func unormN(v float32, maxv float32) uint16 {
	return uint16(math32.Round(clamp01(v) * maxv))
}

// Half encodes v as an IEEE 754 binary16 bit pattern.
func Half(v float32) uint16 {
	return float16.Fromfloat32(v).Bits()
}

// FromHalf decodes a binary16 bit pattern.
func FromHalf(bits uint16) float32 {
	return float16.Frombits(bits).Float32()
}

func clamp01(v float32) float32 {
	switch {
	case v < 0 || v != v:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Pixel writes the texel c into dst using format f and type t.
// dst must hold at least gpucore.BytesPerPixel(f, t) bytes.
func Pixel(dst []byte, c [4]float32, f gpucore.TransferFormat, t gpucore.DataType) {
	switch t {
	case gpucore.TypeUnsignedShort565:
		v := unormN(c[0], 31)<<11 | unormN(c[1], 63)<<5 | unormN(c[2], 31)
		binary.LittleEndian.PutUint16(dst, v)
		return
	case gpucore.TypeUnsignedShort4444:
		v := unormN(c[0], 15)<<12 | unormN(c[1], 15)<<8 | unormN(c[2], 15)<<4 | unormN(c[3], 15)
		binary.LittleEndian.PutUint16(dst, v)
		return
	}

	channels := channelsOf(c, f)
	for i, v := range channels {
		if t == gpucore.TypeHalfFloat {
			binary.LittleEndian.PutUint16(dst[2*i:], Half(v))
		} else {
			dst[i] = Unorm8(v)
		}
	}
}

func channelsOf(c [4]float32, f gpucore.TransferFormat) []float32 {
	switch f {
	case gpucore.FormatAlpha:
		return c[3:4]
	case gpucore.FormatRGB:
		return c[0:3]
	default:
		return c[:]
	}
}

// Image packs a width x height image of RGBA float texels (four floats per
// texel, rows tightly packed) into dst. Row y starts at y*stride.
func Image(dst []byte, stride int, src []float32, width, height int, f gpucore.TransferFormat, t gpucore.DataType) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	bpp := gpucore.BytesPerPixel(f, t)
	if stride < width*bpp {
		return fmt.Errorf("pack: stride %d below row size %d", stride, width*bpp)
	}
	if need := stride*(height-1) + width*bpp; len(dst) < need {
		return fmt.Errorf("%w: have %d, need %d", ErrShortBuffer, len(dst), need)
	}
	if len(src) < width*height*4 {
		return fmt.Errorf("pack: source holds %d floats, need %d", len(src), width*height*4)
	}

	for y := 0; y < height; y++ {
		row := dst[y*stride:]
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			Pixel(row[x*bpp:], [4]float32{src[i], src[i+1], src[i+2], src[i+3]}, f, t)
		}
	}
	return nil
}
