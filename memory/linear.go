// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memory

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/pixelcopy"
	"github.com/gogpu/pixelcopy/gpucore"
)

// linear is an RGBA8 allocation whose rows are stride pixels apart.
type linear struct {
	width  int
	height int
	stride int
	pix    []byte
}

func checkDims(width, height, stride int) error {
	if width <= 0 || height <= 0 || stride < width {
		return fmt.Errorf("%w: %dx%d stride %d", gpucore.ErrInvalidHandle, width, height, stride)
	}
	return nil
}

// Width returns the logical width in pixels.
func (l *linear) Width() int { return l.width }

// Height returns the height in pixels.
func (l *linear) Height() int { return l.height }

// Stride returns the allocated row length in pixels.
func (l *linear) Stride() int { return l.stride }

// RowBytes returns the row pitch in bytes.
func (l *linear) RowBytes() int { return l.stride * 4 }

// Pixels returns the raw allocation.
func (l *linear) Pixels() []byte { return l.pix }

// validate reports a malformed handle.
func (l *linear) validate() error {
	if l.pix == nil {
		return fmt.Errorf("%w: released", gpucore.ErrInvalidHandle)
	}
	if err := checkDims(l.width, l.height, l.stride); err != nil {
		return err
	}
	if need := l.stride * 4 * l.height; len(l.pix) < need {
		return fmt.Errorf("%w: %d bytes, need %d", gpucore.ErrInvalidHandle, len(l.pix), need)
	}
	return nil
}

// Texels returns the logical image.
func (l *linear) Texels() (gpucore.ImageData, error) {
	if err := l.validate(); err != nil {
		return gpucore.ImageData{}, err
	}
	return gpucore.ImageData{Pixels: l.pix, Width: l.width, Height: l.height, RowBytes: l.stride * 4}, nil
}

// DirectMapping returns the whole allocation, padding included.
func (l *linear) DirectMapping() (gpucore.ImageData, error) {
	if err := l.validate(); err != nil {
		return gpucore.ImageData{}, err
	}
	return gpucore.ImageData{Pixels: l.pix, Width: l.stride, Height: l.height, RowBytes: l.stride * 4}, nil
}

// Draw copies img into the allocation, anchored at the top-left corner.
func (l *linear) Draw(img image.Image) {
	dst := &image.NRGBA{Pix: l.pix, Stride: l.stride * 4, Rect: image.Rect(0, 0, l.width, l.height)}
	draw.Draw(dst, dst.Rect, img, img.Bounds().Min, draw.Src)
}

// Buffer wraps mem as a source buffer with the given usage.
func Buffer(mem Handle, usage pixelcopy.UsageFlags) *pixelcopy.SourceBuffer {
	return &pixelcopy.SourceBuffer{
		Width:  mem.Width(),
		Height: mem.Height(),
		Stride: mem.Stride(),
		Usage:  usage,
		Memory: mem,
	}
}

// Handle is implemented by every memory type in this package.
type Handle interface {
	gpucore.ExternalImage
	Width() int
	Height() int
	Stride() int
}
