package wgpu

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/pixelcopy/gpucore"
	"github.com/gogpu/pixelcopy/internal/pack"
)

const (
	// mapTimeout bounds how long ReadPixels waits for the staging buffer.
	mapTimeout = 5 * time.Second

	// stagingPoolSize is the number of idle readback buffers kept.
	stagingPoolSize = 4
)

// texture is a GPU texture with the view used for sampling and rendering.
type texture struct {
	tex    *wgpu.Texture
	view   *wgpu.TextureView
	width  int
	height int
	format gputypes.TextureFormat
}

var _ gpucontext.Texture = (*texture)(nil)

func (t *texture) Width() int  { return t.width }
func (t *texture) Height() int { return t.height }

func (t *texture) release() {
	if t.view != nil {
		t.view.Release()
	}
	if t.tex != nil {
		t.tex.Release()
	}
}

// Device implements gpucore.Device with a wgpu device.
//
// Device is safe for concurrent use, but draws share viewport and blend
// state so callers should serialize readbacks.
type Device struct {
	mu sync.Mutex

	device  *wgpu.Device
	queue   *wgpu.Queue
	caps    gpucore.Capabilities
	pipes   *pipelineCache
	staging *stagingPool[*wgpu.Buffer]
	logger  *slog.Logger

	textures map[gpucore.TextureID]*texture
	targets  map[gpucore.RenderTargetID]gpucore.TextureID
	nextID   uint64

	viewportW, viewportH int
	scissor, blend       bool

	// Per-draw objects released once the queue is idle.
	inflight []func()
	// Submission index of the last draw or copy.
	lastSubmit uint64

	closed bool
}

var _ gpucore.Device = (*Device)(nil)

// NewDevice wraps an open wgpu device. info describes the adapter the
// device was requested from.
func NewDevice(device *wgpu.Device, info gputypes.AdapterInfo) (*Device, error) {
	if device == nil {
		return nil, fmt.Errorf("wgpu: nil device")
	}
	pipes, err := newPipelineCache(device)
	if err != nil {
		return nil, err
	}

	limits := device.Limits()
	return &Device{
		device: device,
		queue:  device.Queue(),
		caps: gpucore.Capabilities{
			MaxTextureSize: int(limits.MaxTextureDimension2D),
			// RGBA16Float is renderable in core WebGPU.
			RenderableFloat: true,
			Adapter:         adapterInfo(info),
		},
		pipes:    pipes,
		staging:  newStagingPool[*wgpu.Buffer](stagingPoolSize),
		logger:   slog.New(slog.DiscardHandler),
		textures: make(map[gpucore.TextureID]*texture),
		targets:  make(map[gpucore.RenderTargetID]gpucore.TextureID),
	}, nil
}

// adapterInfo converts wgpu adapter info to the gpucontext form.
func adapterInfo(info gputypes.AdapterInfo) gpucontext.AdapterInfo {
	t := gpucontext.AdapterTypeUnknown
	switch info.DeviceType {
	case gputypes.DeviceTypeDiscreteGPU:
		t = gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		t = gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		t = gpucontext.AdapterTypeSoftware
	}
	return gpucontext.AdapterInfo{Name: info.Name, Type: t}
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

func (d *Device) allocID() uint64 {
	d.nextID++
	return d.nextID
}

// ImportImage uploads the image's texels into a new RGBA8 texture.
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

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpucore.InvalidID, gpucore.ErrDeviceLost
	}

	t, err := d.newTexture("pixelcopy.import", data.Width, data.Height, gputypes.TextureFormatRGBA8Unorm,
		wgpu.TextureUsageTextureBinding|wgpu.TextureUsageCopyDst)
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("%w: %w", gpucore.ErrImportFailed, err)
	}
	pixels, rowBytes := tightRows(data)
	err = d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: t.tex},
		pixels,
		&wgpu.ImageDataLayout{BytesPerRow: uint32(rowBytes), RowsPerImage: uint32(data.Height)},
		&wgpu.Extent3D{Width: uint32(data.Width), Height: uint32(data.Height), DepthOrArrayLayers: 1},
	)
	if err != nil {
		t.release()
		return gpucore.InvalidID, fmt.Errorf("%w: upload: %w", gpucore.ErrImportFailed, err)
	}

	id := gpucore.TextureID(d.allocID())
	d.textures[id] = t
	d.logger.Debug("wgpu: imported image", "id", id, "width", data.Width, "height", data.Height)
	return id, nil
}

// newTexture creates a 2D texture and its default view. Caller holds mu.
func (d *Device) newTexture(label string, width, height int, format gputypes.TextureFormat, usage wgpu.TextureUsage) (*texture, error) {
	if width <= 0 || height <= 0 || width > d.caps.MaxTextureSize || height > d.caps.MaxTextureSize {
		return nil, fmt.Errorf("wgpu: invalid texture size %dx%d", width, height)
	}
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("wgpu: create texture view: %w", err)
	}
	return &texture{tex: tex, view: view, width: width, height: height, format: format}, nil
}

// CreateTexture allocates a texture that can be rendered to, sampled and
// copied back.
func (d *Device) CreateTexture(desc gpucore.TextureDescriptor) (gpucore.TextureID, error) {
	if _, err := texelSize(desc.Format); err != nil {
		return gpucore.InvalidID, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpucore.InvalidID, gpucore.ErrDeviceLost
	}
	label := desc.Label
	if label == "" {
		label = "pixelcopy.texture"
	}
	t, err := d.newTexture(label, desc.Width, desc.Height, desc.Format,
		wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding|wgpu.TextureUsageCopySrc)
	if err != nil {
		return gpucore.InvalidID, err
	}
	id := gpucore.TextureID(d.allocID())
	d.textures[id] = t
	return id, nil
}

// DestroyTexture releases a texture.
func (d *Device) DestroyTexture(id gpucore.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.textures[id]; ok {
		delete(d.textures, id)
		// Draws that sampled the texture may still be in flight.
		d.inflight = append(d.inflight, t.release)
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
	return id, nil
}

// DestroyRenderTarget releases a render target. The color texture is
// left alive.
func (d *Device) DestroyRenderTarget(id gpucore.RenderTargetID) {
	d.mu.Lock()
	delete(d.targets, id)
	d.mu.Unlock()
}

// SetViewport sets the draw area.
func (d *Device) SetViewport(width, height int) {
	d.mu.Lock()
	d.viewportW, d.viewportH = width, height
	d.mu.Unlock()
}

// SetScissorEnabled toggles the scissor test. No scissor rectangle is
// ever set, so an enabled scissor covers the viewport.
func (d *Device) SetScissorEnabled(enabled bool) {
	d.mu.Lock()
	d.scissor = enabled
	d.mu.Unlock()
}

// SetBlendEnabled toggles premultiplied source-over blending.
func (d *Device) SetBlendEnabled(enabled bool) {
	d.mu.Lock()
	d.blend = enabled
	d.mu.Unlock()
}

// target resolves a render target. Caller holds mu.
func (d *Device) target(id gpucore.RenderTargetID) (*texture, error) {
	if d.closed {
		return nil, gpucore.ErrDeviceLost
	}
	texID, ok := d.targets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", gpucore.ErrUnknownRenderTarget, id)
	}
	t, ok := d.textures[texID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", gpucore.ErrUnknownTexture, texID)
	}
	return t, nil
}

// viewport clamps the viewport to t. Caller holds mu.
func (d *Device) viewport(t *texture) (w, h int) {
	w, h = d.viewportW, d.viewportH
	if w <= 0 || w > t.width {
		w = t.width
	}
	if h <= 0 || h > t.height {
		h = t.height
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
	pipeline, err := d.pipes.pipeline(pipelineKey{format: dst.format, blend: d.blend})
	if err != nil {
		return err
	}

	w, h := d.viewport(dst)
	params, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "pixelcopy.params",
		Size:  paramsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create params buffer: %w", err)
	}
	d.inflight = append(d.inflight, params.Release)
	alphaOnly := dst.format == gputypes.TextureFormatR8Unorm
	if err := d.queue.WriteBuffer(params, 0, blitParams(q.Transform, w, h, alphaOnly)); err != nil {
		return fmt.Errorf("wgpu: write params: %w", err)
	}

	group, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "pixelcopy.blit",
		Layout: d.pipes.bindLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: params, Size: paramsSize},
			{Binding: 1, Sampler: d.pipes.sampler(q.Filter)},
			{Binding: 2, TextureView: src.view},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group: %w", err)
	}
	d.inflight = append(d.inflight, group.Release)

	load := gputypes.LoadOpClear
	if d.blend {
		load = gputypes.LoadOpLoad
	}
	err = d.submit("pixelcopy.draw", func(enc *wgpu.CommandEncoder) error {
		pass, err := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:    dst.view,
				LoadOp:  load,
				StoreOp: gputypes.StoreOpStore,
			}},
		})
		if err != nil {
			return err
		}
		pass.SetPipeline(pipeline)
		pass.SetBindGroup(0, group, nil)
		pass.SetViewport(0, 0, float32(w), float32(h), 0, 1)
		pass.Draw(3, 1, 0, 0)
		return pass.End()
	})
	if err != nil {
		return err
	}
	d.logger.Debug("wgpu: draw", "target", target, "width", w, "height", h, "filter", q.Filter)
	return nil
}

// submit records commands with fn and submits them. Caller holds mu.
func (d *Device) submit(label string, fn func(*wgpu.CommandEncoder) error) error {
	enc, err := d.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := fn(enc); err != nil {
		enc.DiscardEncoding()
		return fmt.Errorf("wgpu: %s: %w", label, err)
	}
	cmd, err := enc.Finish()
	if err != nil {
		return fmt.Errorf("wgpu: finish %s: %w", label, err)
	}
	idx, err := d.queue.Submit(cmd)
	if err != nil {
		return fmt.Errorf("wgpu: submit %s: %w", label, err)
	}
	d.lastSubmit = idx
	d.inflight = append(d.inflight, func() { d.device.FreeCommandBuffer(cmd) })
	return nil
}

// ReadPixels copies the viewport area of the target through a staging
// buffer and packs it into dst.
func (d *Device) ReadPixels(target gpucore.RenderTargetID, p gpucore.PixelPack, dst []byte) error {
	switch p.Alignment {
	case 0, 1, 2, 4, 8:
	default:
		return fmt.Errorf("wgpu: invalid pack alignment %d", p.Alignment)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	tex, err := d.target(target)
	if err != nil {
		return err
	}
	w, h := d.viewport(tex)
	bpp, err := texelSize(tex.format)
	if err != nil {
		return err
	}
	rowPitch := alignedRowBytes(w * bpp)
	size := uint64(rowPitch * h)

	staging, ok := d.staging.get(size)
	if !ok {
		staging, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "pixelcopy.staging",
			Size:  size,
			Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
		})
		if err != nil {
			return fmt.Errorf("wgpu: create staging buffer: %w", err)
		}
	}
	defer d.staging.put(size, staging)

	err = d.submit("pixelcopy.readback", func(enc *wgpu.CommandEncoder) error {
		enc.CopyTextureToBuffer(tex.tex, staging, []wgpu.BufferTextureCopy{{
			BufferLayout: wgpu.ImageDataLayout{BytesPerRow: uint32(rowPitch), RowsPerImage: uint32(h)},
			TextureBase:  wgpu.ImageCopyTexture{Texture: tex.tex},
			Size:         wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		}})
		return nil
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), mapTimeout)
	defer cancel()
	if err := staging.Map(ctx, wgpu.MapModeRead, 0, size); err != nil {
		return fmt.Errorf("wgpu: map staging buffer: %w", err)
	}
	defer staging.Unmap() //nolint:errcheck // nothing to recover after the copy

	rng, err := staging.MappedRange(0, size)
	if err != nil {
		return fmt.Errorf("wgpu: mapped range: %w", err)
	}
	defer rng.Release()

	texels, err := decodeTexels(rng.Bytes(), rowPitch, w, h, tex.format)
	if err != nil {
		return err
	}
	if err := pack.Image(dst, p.Stride(w), texels, w, h, p.Format, p.Type); err != nil {
		return fmt.Errorf("wgpu: read pixels: %w", err)
	}
	return nil
}

// Finish waits for submitted work and frees per-draw objects.
func (d *Device) Finish() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if err := d.device.WaitIdle(); err != nil {
		d.logger.Warn("wgpu: wait idle failed", "err", err)
	}
	d.releaseInflight()
}

// releaseInflight runs deferred releases. Caller holds mu.
func (d *Device) releaseInflight() {
	for _, release := range d.inflight {
		release()
	}
	d.inflight = d.inflight[:0]
}

// Fence returns a fence that signals when everything submitted so far
// has completed. Producers rendering on this device hand it to
// pixelcopy alongside their buffer.
func (d *Device) Fence() *SubmissionFence {
	d.mu.Lock()
	defer d.mu.Unlock()
	return &SubmissionFence{queue: d.queue, index: d.lastSubmit}
}

// Close waits for the GPU and releases every resource. The wgpu device
// itself stays open; it belongs to the caller.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	_ = d.device.WaitIdle()
	d.releaseInflight()
	for id, t := range d.textures {
		t.release()
		delete(d.textures, id)
	}
	clear(d.targets)
	d.logger.Debug("wgpu: closing device", "staging", d.staging)
	d.staging.clear()
	d.pipes.Release()
	d.closed = true
}
