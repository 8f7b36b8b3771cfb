// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pixelcopy/gpucore"
	"github.com/gogpu/pixelcopy/internal/pack"
)

// DefaultMaxTextureSize matches gputypes.DefaultLimits().MaxTextureDimension2D.
const DefaultMaxTextureSize = 8192

// Option configures a software Device.
type Option func(*Device)

// WithMaxTextureSize overrides the reported maximum texture dimension.
func WithMaxTextureSize(n int) Option {
	return func(d *Device) {
		d.caps.MaxTextureSize = n
	}
}

// WithRenderableFloat controls whether RGBA16Float render targets are
// supported. Enabled by default.
func WithRenderableFloat(ok bool) Option {
	return func(d *Device) {
		d.caps.RenderableFloat = ok
	}
}

// Stats counts device resources. Live counts drop back to zero once every
// created resource has been destroyed.
type Stats struct {
	LiveTextures         int
	LiveRenderTargets    int
	TexturesCreated      int
	RenderTargetsCreated int
	Imports              int
	Draws                int
	Reads                int
}

// State is the fixed-function state set on the device.
type State struct {
	ViewportWidth  int
	ViewportHeight int
	Scissor        bool
	Blend          bool
}

// texture is a float RGBA image, four floats per texel, rows top-down.
type texture struct {
	width  int
	height int
	format gputypes.TextureFormat
	texels []float32
}

var _ gpucontext.Texture = (*texture)(nil)

func (t *texture) Width() int  { return t.width }
func (t *texture) Height() int { return t.height }

// Device is a CPU implementation of gpucore.Device.
//
// Device is safe for concurrent use, but the readback protocol itself relies
// on device-wide state and callers should serialize copies.
type Device struct {
	mu       sync.Mutex
	caps     gpucore.Capabilities
	nextID   uint64
	textures map[gpucore.TextureID]*texture
	targets  map[gpucore.RenderTargetID]gpucore.TextureID
	state    State
	stats    Stats
	closed   bool
	logger   *slog.Logger
}

var _ gpucore.Device = (*Device)(nil)

// New creates a software device.
func New(opts ...Option) *Device {
	d := &Device{
		caps: gpucore.Capabilities{
			MaxTextureSize:  DefaultMaxTextureSize,
			RenderableFloat: true,
			Adapter: gpucontext.AdapterInfo{
				Name: "pixelcopy software",
				Type: gpucontext.AdapterTypeSoftware,
			},
		},
		textures: make(map[gpucore.TextureID]*texture),
		targets:  make(map[gpucore.RenderTargetID]gpucore.TextureID),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetLogger sets the logger for device diagnostics. Nil disables logging.
func (d *Device) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	d.mu.Lock()
	d.logger = l
	d.mu.Unlock()
}

// Capabilities reports device limits.
func (d *Device) Capabilities() gpucore.Capabilities {
	return d.caps
}

// Stats returns a snapshot of the resource counters.
func (d *Device) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// State returns the current fixed-function state.
func (d *Device) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Close releases every live resource. Later calls fail with
// gpucore.ErrDeviceLost.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.textures)
	clear(d.targets)
	d.stats.LiveTextures = 0
	d.stats.LiveRenderTargets = 0
	d.closed = true
}

func (d *Device) allocID() uint64 {
	d.nextID++
	return d.nextID
}

// ImportImage copies the image's texels into a new sampled texture.
func (d *Device) ImportImage(img gpucore.ExternalImage) (gpucore.TextureID, error) {
	if img == nil {
		return gpucore.InvalidID, fmt.Errorf("%w: nil image", gpucore.ErrImportFailed)
	}
	data, err := img.Texels()
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("%w: %w", gpucore.ErrImportFailed, err)
	}
	if !data.Valid() {
		return gpucore.InvalidID, fmt.Errorf("%w: malformed %dx%d image", gpucore.ErrImportFailed, data.Width, data.Height)
	}
	if data.Width > d.caps.MaxTextureSize || data.Height > d.caps.MaxTextureSize {
		return gpucore.InvalidID, fmt.Errorf("%w: %dx%d exceeds max texture size %d",
			gpucore.ErrImportFailed, data.Width, data.Height, d.caps.MaxTextureSize)
	}

	tex := &texture{
		width:  data.Width,
		height: data.Height,
		format: gputypes.TextureFormatRGBA8Unorm,
		texels: make([]float32, data.Width*data.Height*4),
	}
	for y := 0; y < data.Height; y++ {
		row := data.Row(y)
		dst := tex.texels[y*data.Width*4:]
		for i, b := range row {
			dst[i] = float32(b) / 255
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpucore.InvalidID, gpucore.ErrDeviceLost
	}
	id := gpucore.TextureID(d.allocID())
	d.textures[id] = tex
	d.stats.Imports++
	d.stats.TexturesCreated++
	d.stats.LiveTextures++
	d.logger.Debug("software: imported image", "id", id, "width", tex.width, "height", tex.height)
	return id, nil
}

// CreateTexture allocates a cleared texture.
func (d *Device) CreateTexture(desc gpucore.TextureDescriptor) (gpucore.TextureID, error) {
	if desc.Width <= 0 || desc.Height <= 0 ||
		desc.Width > d.caps.MaxTextureSize || desc.Height > d.caps.MaxTextureSize {
		return gpucore.InvalidID, fmt.Errorf("software: invalid texture size %dx%d", desc.Width, desc.Height)
	}
	switch desc.Format {
	case gputypes.TextureFormatR8Unorm, gputypes.TextureFormatRGBA8Unorm:
	case gputypes.TextureFormatRGBA16Float:
		if !d.caps.RenderableFloat {
			return gpucore.InvalidID, fmt.Errorf("software: %v render targets not supported", desc.Format)
		}
	default:
		return gpucore.InvalidID, fmt.Errorf("software: unsupported texture format %v", desc.Format)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpucore.InvalidID, gpucore.ErrDeviceLost
	}
	id := gpucore.TextureID(d.allocID())
	d.textures[id] = &texture{
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
		texels: make([]float32, desc.Width*desc.Height*4),
	}
	d.stats.TexturesCreated++
	d.stats.LiveTextures++
	return id, nil
}

// DestroyTexture releases a texture.
func (d *Device) DestroyTexture(id gpucore.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.textures[id]; ok {
		delete(d.textures, id)
		d.stats.LiveTextures--
	}
}

// CreateRenderTarget wraps a texture as a render target.
func (d *Device) CreateRenderTarget(color gpucore.TextureID) (gpucore.RenderTargetID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpucore.InvalidID, gpucore.ErrDeviceLost
	}
	if _, ok := d.textures[color]; !ok {
		return gpucore.InvalidID, fmt.Errorf("%w: %d", gpucore.ErrUnknownTexture, color)
	}
	id := gpucore.RenderTargetID(d.allocID())
	d.targets[id] = color
	d.stats.RenderTargetsCreated++
	d.stats.LiveRenderTargets++
	return id, nil
}

// DestroyRenderTarget releases a render target.
func (d *Device) DestroyRenderTarget(id gpucore.RenderTargetID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.targets[id]; ok {
		delete(d.targets, id)
		d.stats.LiveRenderTargets--
	}
}

// SetViewport sets the draw area.
func (d *Device) SetViewport(width, height int) {
	d.mu.Lock()
	d.state.ViewportWidth, d.state.ViewportHeight = width, height
	d.mu.Unlock()
}

// SetScissorEnabled toggles the scissor test. The software device has no
// scissor rectangle, so the flag is only recorded.
func (d *Device) SetScissorEnabled(enabled bool) {
	d.mu.Lock()
	d.state.Scissor = enabled
	d.mu.Unlock()
}

// SetBlendEnabled toggles premultiplied source-over blending.
func (d *Device) SetBlendEnabled(enabled bool) {
	d.mu.Lock()
	d.state.Blend = enabled
	d.mu.Unlock()
}

// target resolves a render target to its color texture. Caller holds mu.
func (d *Device) target(id gpucore.RenderTargetID) (*texture, error) {
	if d.closed {
		return nil, gpucore.ErrDeviceLost
	}
	texID, ok := d.targets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", gpucore.ErrUnknownRenderTarget, id)
	}
	tex, ok := d.textures[texID]
	if !ok {
		return nil, fmt.Errorf("%w: %d (color attachment of target %d)", gpucore.ErrUnknownTexture, texID, id)
	}
	return tex, nil
}

// viewport returns the draw area clipped to tex. Caller holds mu.
func (d *Device) viewport(tex *texture) (w, h int) {
	w, h = d.state.ViewportWidth, d.state.ViewportHeight
	if w <= 0 || w > tex.width {
		w = tex.width
	}
	if h <= 0 || h > tex.height {
		h = tex.height
	}
	return w, h
}

// DrawQuad samples q.Source over the viewport of the target.
func (d *Device) DrawQuad(target gpucore.RenderTargetID, q gpucore.Quad) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	dst, err := d.target(target)
	if err != nil {
		return err
	}
	src, ok := d.textures[q.Source]
	if !ok {
		return fmt.Errorf("%w: %d", gpucore.ErrUnknownTexture, q.Source)
	}

	w, h := d.viewport(dst)
	s := sampler{tex: src, filter: q.Filter}
	for y := 0; y < h; y++ {
		v := 1 - (float32(y)+0.5)/float32(h)
		for x := 0; x < w; x++ {
			u := (float32(x) + 0.5) / float32(w)
			su, sv := q.Transform.MapPoint(u, v)
			c := s.sample(su, sv)

			i := (y*dst.width + x) * 4
			if d.state.Blend {
				inv := 1 - c[3]
				for k := range c {
					c[k] += dst.texels[i+k] * inv
				}
			}
			store(dst, i, c)
		}
	}
	d.stats.Draws++
	d.logger.Debug("software: draw", "target", target, "width", w, "height", h, "filter", q.Filter)
	return nil
}

// store quantizes c to the texture's storage format.
func store(t *texture, i int, c [4]float32) {
	out := t.texels[i : i+4]
	switch t.format {
	case gputypes.TextureFormatR8Unorm:
		// Single channel targets keep alpha coverage.
		out[0], out[1], out[2] = 0, 0, 0
		out[3] = float32(pack.Unorm8(c[3])) / 255
	case gputypes.TextureFormatRGBA16Float:
		for k, v := range c {
			out[k] = pack.FromHalf(pack.Half(v))
		}
	default:
		for k, v := range c {
			out[k] = float32(pack.Unorm8(v)) / 255
		}
	}
}

// ReadPixels packs the viewport area of the target into dst.
func (d *Device) ReadPixels(target gpucore.RenderTargetID, p gpucore.PixelPack, dst []byte) error {
	switch p.Alignment {
	case 0, 1, 2, 4, 8:
	default:
		return fmt.Errorf("software: invalid pack alignment %d", p.Alignment)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	tex, err := d.target(target)
	if err != nil {
		return err
	}
	w, h := d.viewport(tex)
	region := tex.texels
	if w != tex.width {
		region = make([]float32, 0, w*h*4)
		for y := 0; y < h; y++ {
			region = append(region, tex.texels[y*tex.width*4:(y*tex.width+w)*4]...)
		}
	}
	if err := pack.Image(dst, p.Stride(w), region, w, h, p.Format, p.Type); err != nil {
		return fmt.Errorf("software: read pixels: %w", err)
	}
	d.stats.Reads++
	return nil
}

// Finish is a no-op: software draws complete synchronously.
func (d *Device) Finish() {}
