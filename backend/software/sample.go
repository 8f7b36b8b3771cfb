// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"
)

// sampler reads a texture at normalized coordinates with clamp-to-edge
// addressing.
type sampler struct {
	tex    *texture
	filter gputypes.FilterMode
}

func (s sampler) sample(u, v float32) [4]float32 {
	if s.filter == gputypes.FilterModeLinear {
		return s.bilinear(u, v)
	}
	return s.nearest(u, v)
}

func (s sampler) texel(x, y int) [4]float32 {
	x = clampInt(x, 0, s.tex.width-1)
	y = clampInt(y, 0, s.tex.height-1)
	i := (y*s.tex.width + x) * 4
	t := s.tex.texels
	return [4]float32{t[i], t[i+1], t[i+2], t[i+3]}
}

func (s sampler) nearest(u, v float32) [4]float32 {
	x := int(math32.Floor(u * float32(s.tex.width)))
	y := int(math32.Floor(v * float32(s.tex.height)))
	return s.texel(x, y)
}

func (s sampler) bilinear(u, v float32) [4]float32 {
	fx := u*float32(s.tex.width) - 0.5
	fy := v*float32(s.tex.height) - 0.5
	x0f, y0f := math32.Floor(fx), math32.Floor(fy)
	ax, ay := fx-x0f, fy-y0f
	x0, y0 := int(x0f), int(y0f)

	c00 := s.texel(x0, y0)
	c10 := s.texel(x0+1, y0)
	c01 := s.texel(x0, y0+1)
	c11 := s.texel(x0+1, y0+1)

	var out [4]float32
	for k := range out {
		top := c00[k] + (c10[k]-c00[k])*ax
		bottom := c01[k] + (c11[k]-c01[k])*ax
		out[k] = top + (bottom-top)*ay
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
