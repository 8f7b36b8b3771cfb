// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memory

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/pixelcopy"
	"github.com/gogpu/pixelcopy/gpucore"
)

// tileSize is the edge of one tile in pixels.
const tileSize = 4

// Opaque is a buffer stored in a 4x4 tiled layout. Devices can import it,
// but the CPU cannot address its rows in place.
type Opaque struct {
	width  int
	height int
	tilesX int
	pix    []byte
}

var (
	_ Handle                 = (*Opaque)(nil)
	_ pixelcopy.DirectMapper = (*Opaque)(nil)
)

// NewOpaque allocates a cleared tiled buffer.
func NewOpaque(width, height int) (*Opaque, error) {
	if err := checkDims(width, height, width); err != nil {
		return nil, err
	}
	tx := (width + tileSize - 1) / tileSize
	ty := (height + tileSize - 1) / tileSize
	return &Opaque{
		width:  width,
		height: height,
		tilesX: tx,
		pix:    make([]byte, tx*ty*tileSize*tileSize*4),
	}, nil
}

// OpaqueFromImage allocates a tiled buffer holding img.
func OpaqueFromImage(img image.Image) (*Opaque, error) {
	b := img.Bounds()
	o, err := NewOpaque(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	for y := 0; y < o.height; y++ {
		for x := 0; x < o.width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			copy(o.pix[o.offset(x, y):], []byte{c.R, c.G, c.B, c.A})
		}
	}
	return o, nil
}

// offset returns the byte offset of pixel (x, y) in the tiled layout.
func (o *Opaque) offset(x, y int) int {
	tile := (y/tileSize)*o.tilesX + x/tileSize
	in := (y%tileSize)*tileSize + x%tileSize
	return (tile*tileSize*tileSize + in) * 4
}

// Width returns the width in pixels.
func (o *Opaque) Width() int { return o.width }

// Height returns the height in pixels.
func (o *Opaque) Height() int { return o.height }

// Stride returns the width: the tiled layout has no row pitch.
func (o *Opaque) Stride() int { return o.width }

// Texels detiles the buffer into linear rows.
func (o *Opaque) Texels() (gpucore.ImageData, error) {
	if o.pix == nil || len(o.pix) < o.offset(o.width-1, o.height-1)+4 {
		return gpucore.ImageData{}, fmt.Errorf("%w: tiled buffer truncated", gpucore.ErrInvalidHandle)
	}
	out := make([]byte, o.width*o.height*4)
	for y := 0; y < o.height; y++ {
		for x := 0; x < o.width; x++ {
			i := o.offset(x, y)
			copy(out[(y*o.width+x)*4:], o.pix[i:i+4])
		}
	}
	return gpucore.ImageData{Pixels: out, Width: o.width, Height: o.height, RowBytes: o.width * 4}, nil
}

// DirectMapping always fails with gpucore.ErrNotDirectlyMappable.
func (o *Opaque) DirectMapping() (gpucore.ImageData, error) {
	return gpucore.ImageData{}, gpucore.ErrNotDirectlyMappable
}
