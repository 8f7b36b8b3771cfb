package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pixelcopy/gpucore"
	"github.com/gogpu/pixelcopy/internal/pack"
)

// copyRowAlignment is the required bytes-per-row alignment for
// texture-to-buffer copies.
const copyRowAlignment = 256

// paramsSize is the size of the blit uniform block: a mat4x4 followed by
// a vec4.
const paramsSize = 16*4 + 4*4

// alignedRowBytes rounds a row size up to copyRowAlignment.
func alignedRowBytes(rowBytes int) int {
	return (rowBytes + copyRowAlignment - 1) &^ (copyRowAlignment - 1)
}

// texelSize returns the bytes per texel of a render target format.
func texelSize(format gputypes.TextureFormat) (int, error) {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		return 1, nil
	case gputypes.TextureFormatRGBA8Unorm:
		return 4, nil
	case gputypes.TextureFormatRGBA16Float:
		return 8, nil
	default:
		return 0, fmt.Errorf("wgpu: unsupported target format %v", format)
	}
}

// blitParams encodes the blit uniform block.
func blitParams(m gpucore.Matrix4, width, height int, alphaOnly bool) []byte {
	buf := make([]byte, paramsSize)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	var flag float32
	if alphaOnly {
		flag = 1
	}
	tail := [4]float32{float32(width), float32(height), flag, 0}
	for i, v := range tail {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeTexels converts rows read back from a render target into RGBA
// float texels, four per pixel and tightly packed. Single channel targets
// hold alpha.
func decodeTexels(data []byte, rowPitch, width, height int, format gputypes.TextureFormat) ([]float32, error) {
	bpp, err := texelSize(format)
	if err != nil {
		return nil, err
	}
	if rowPitch < width*bpp {
		return nil, fmt.Errorf("wgpu: row pitch %d below row size %d", rowPitch, width*bpp)
	}
	if need := rowPitch*(height-1) + width*bpp; len(data) < need {
		return nil, fmt.Errorf("wgpu: readback holds %d bytes, need %d", len(data), need)
	}

	out := make([]float32, width*height*4)
	for y := 0; y < height; y++ {
		row := data[y*rowPitch:]
		for x := 0; x < width; x++ {
			px := out[(y*width+x)*4:][:4]
			switch format {
			case gputypes.TextureFormatR8Unorm:
				px[3] = float32(row[x]) / 255
			case gputypes.TextureFormatRGBA8Unorm:
				for k := range px {
					px[k] = float32(row[x*4+k]) / 255
				}
			case gputypes.TextureFormatRGBA16Float:
				for k := range px {
					px[k] = pack.FromHalf(binary.LittleEndian.Uint16(row[x*8+k*2:]))
				}
			}
		}
	}
	return out, nil
}

// tightRows returns the image rows with a row pitch the queue can upload.
// Images whose last row is shorter than the pitch are repacked.
func tightRows(img gpucore.ImageData) (pixels []byte, rowBytes int) {
	if len(img.Pixels) >= img.RowBytes*img.Height {
		return img.Pixels, img.RowBytes
	}
	rowBytes = img.Width * 4
	pixels = make([]byte, rowBytes*img.Height)
	for y := 0; y < img.Height; y++ {
		copy(pixels[y*rowBytes:], img.Row(y))
	}
	return pixels, rowBytes
}
