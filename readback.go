package pixelcopy

import (
	"errors"
	"image"
	"log/slog"

	"github.com/gogpu/pixelcopy/gpucore"
)

// Readback copies producer frames into CPU bitmaps using one device.
//
// A Readback is not safe for concurrent use: the device's bound textures
// and fixed-function state are shared, so callers must serialize copies.
type Readback struct {
	device gpucore.Device
	cfg    Config
	log    *slog.Logger
}

// New creates a Readback drawing on device.
//
// Example:
//
//	b, err := backend.Open("")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	rb := pixelcopy.New(b.Device(), pixelcopy.WithConfig(cfg))
//	bm := pixelcopy.NewPixmap(640, 480, pixelcopy.RGBA8888)
//	if res := rb.CopySurfaceInto(queue, image.Rectangle{}, bm); res != pixelcopy.Success {
//		log.Printf("readback failed: %v", res)
//	}
func New(device gpucore.Device, opts ...Option) *Readback {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &Readback{device: device, cfg: o.config, log: o.logger}
	if o.logger != nil {
		propagateLogger(device, o.logger)
	}
	if device != nil {
		caps := device.Capabilities()
		r.logger().Info("pixelcopy: device attached",
			"adapter", caps.Adapter.Name,
			"type", caps.Adapter.Type,
			"maxTextureSize", caps.MaxTextureSize,
			"privateReadback", o.config.PrivateReadback)
	}
	return r
}

// Config returns the configuration the Readback was created with.
func (r *Readback) Config() Config {
	return r.cfg
}

func (r *Readback) logger() *slog.Logger {
	if r.log != nil {
		return r.log
	}
	return Logger()
}

// CopySurfaceInto copies the producer's latest frame into dst.
//
// crop selects a source rectangle in top-left-origin coordinates; an empty
// rectangle copies the whole frame. The frame is scaled to dst's size.
func (r *Readback) CopySurfaceInto(p Producer, crop image.Rectangle, dst Bitmap) CopyResult {
	buf, fence, transform, err := p.LatestBuffer()
	if err != nil {
		r.logger().Warn("pixelcopy: failed to get last queued buffer", "err", err)
		return UnknownError
	}
	if buf == nil {
		return SourceEmpty
	}
	if buf.Protected() {
		r.logger().Warn("pixelcopy: refusing to read back protected buffer")
		return SourceInvalid
	}
	if !WaitFence(fence, FenceTimeout) {
		r.logger().Warn("pixelcopy: timeout waiting for buffer fence", "timeout", FenceTimeout)
		return Timeout
	}
	return r.CopyBufferInto(buf, transform, crop, dst)
}

// CopyBuffer copies a whole buffer with the default readback transform.
func (r *Readback) CopyBuffer(buf *SourceBuffer, dst Bitmap) CopyResult {
	return r.CopyBufferInto(buf, gpucore.FlipV(), image.Rectangle{}, dst)
}

// CopyBufferInto copies buf, already complete, into dst. It tries the
// direct memory path first and renders through the device otherwise.
func (r *Readback) CopyBufferInto(buf *SourceBuffer, transform gpucore.Matrix4, crop image.Rectangle, dst Bitmap) CopyResult {
	if buf == nil {
		return SourceEmpty
	}
	if dst == nil {
		return DestinationInvalid
	}
	if buf.Protected() {
		return SourceInvalid
	}
	if buf.Width <= 0 || buf.Height <= 0 || (buf.Stride != 0 && buf.Stride < buf.Width) {
		r.logger().Warn("pixelcopy: malformed source buffer",
			"width", buf.Width, "height", buf.Height, "stride", buf.Stride)
		return SourceInvalid
	}
	if !cropInBounds(crop, buf, transform) {
		r.logger().Warn("pixelcopy: crop outside source", "crop", crop,
			"stride", buf.stride(), "height", buf.Height)
		return DestinationInvalid
	}

	res, err := r.copyFromDirectMapping(buf, transform, crop, dst)
	if !errors.Is(err, errFallbackToGPU) {
		return res
	}
	if r.device == nil {
		return UnknownError
	}
	if buf.Memory == nil {
		return SourceInvalid
	}

	src, err := r.device.ImportImage(buf.Memory)
	if err != nil {
		r.logger().Warn("pixelcopy: failed to import buffer as texture", "err", err)
		return UnknownError
	}
	defer r.device.DestroyTexture(src)

	res = r.copyImageInto(src, transform, buf.Width, buf.Height, crop, dst)
	r.device.Finish()
	return res
}

// CopyLayerInto copies a device-resident layer into dst. It reports false
// when the layer has no content or the copy fails.
func (r *Readback) CopyLayerInto(layer Layer, dst Bitmap) bool {
	if layer == nil || dst == nil || !layer.IsRenderable() || r.device == nil {
		return false
	}
	src := sourceTexture{id: layer.Texture(), width: layer.Width(), height: layer.Height()}
	return r.copyTextureInto(src, layer.Transform(), image.Rectangle{}, dst) == Success
}

// cropInBounds reports whether crop lies inside the buffer's allocated
// extent. The extent is swapped for quarter turn transforms.
func cropInBounds(crop image.Rectangle, buf *SourceBuffer, transform gpucore.Matrix4) bool {
	if crop.Empty() {
		return true
	}
	w, h := buf.stride(), buf.Height
	if transform.IsRotated90() {
		w, h = h, w
	}
	return crop.In(image.Rect(0, 0, w, h))
}
