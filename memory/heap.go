// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memory

import (
	"image"

	"github.com/gogpu/pixelcopy"
)

// Heap is a linear RGBA8 buffer in Go memory.
type Heap struct {
	linear
}

var (
	_ Handle                 = (*Heap)(nil)
	_ pixelcopy.DirectMapper = (*Heap)(nil)
)

// NewHeap allocates a cleared width x height buffer whose rows are stride
// pixels long. A stride of zero means width.
func NewHeap(width, height, stride int) (*Heap, error) {
	if stride == 0 {
		stride = width
	}
	if err := checkDims(width, height, stride); err != nil {
		return nil, err
	}
	return &Heap{linear{
		width:  width,
		height: height,
		stride: stride,
		pix:    make([]byte, stride*4*height),
	}}, nil
}

// HeapFromImage allocates a heap buffer holding img.
func HeapFromImage(img image.Image, stride int) (*Heap, error) {
	b := img.Bounds()
	h, err := NewHeap(b.Dx(), b.Dy(), stride)
	if err != nil {
		return nil, err
	}
	h.Draw(img)
	return h, nil
}
