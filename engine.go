package pixelcopy

import (
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pixelcopy/gpucore"
)

// sourceTexture is a sampled texture and its logical size.
type sourceTexture struct {
	id     gpucore.TextureID
	width  int
	height int
}

// copyImageInto renders an imported buffer into dst. Producers that rotate
// a quarter turn deliver the buffer unrotated, so its logical size is
// swapped before the crop is normalized.
func (r *Readback) copyImageInto(src gpucore.TextureID, transform gpucore.Matrix4, width, height int, crop image.Rectangle, dst Bitmap) CopyResult {
	if transform.IsRotated90() {
		width, height = height, width
	}
	return r.copyTextureInto(sourceTexture{id: src, width: width, height: height}, transform, crop, dst)
}

// copyTextureInto draws src into an off-screen target of dst's size and
// format and reads the result into dst. The target texture and render
// target are released on every return path.
func (r *Readback) copyTextureInto(src sourceTexture, transform gpucore.Matrix4, crop image.Rectangle, dst Bitmap) CopyResult {
	log := r.logger()
	caps := r.device.Capabilities()

	w, h := dst.Width(), dst.Height()
	if w <= 0 || h <= 0 {
		return DestinationInvalid
	}
	if w > caps.MaxTextureSize || h > caps.MaxTextureSize {
		log.Warn("pixelcopy: bitmap exceeds max texture size",
			"bitmap", image.Pt(w, h), "max", caps.MaxTextureSize)
		return DestinationInvalid
	}
	if dst.Format() == RGBAF16 && !caps.RenderableFloat {
		log.Warn("pixelcopy: device cannot render half float")
		return DestinationInvalid
	}
	if src.width <= 0 || src.height <= 0 {
		return SourceInvalid
	}

	t := TransferFor(dst.Format())
	bpp := t.BytesPerPixel()
	pixels := dst.Pixels()
	rowBytes := dst.RowBytes()
	if pixels == nil || rowBytes < w*bpp || len(pixels) < rowBytes*(h-1)+w*bpp {
		return DestinationInvalid
	}

	color, err := r.device.CreateTexture(gpucore.TextureDescriptor{
		Label:  "pixelcopy.readback",
		Width:  w,
		Height: h,
		Format: t.Internal,
	})
	if err != nil {
		log.Warn("pixelcopy: could not create target texture", "format", t.Internal, "err", err)
		return UnknownError
	}
	defer r.device.DestroyTexture(color)

	target, err := r.device.CreateRenderTarget(color)
	if err != nil {
		log.Warn("pixelcopy: could not create render target", "err", err)
		return UnknownError
	}
	defer r.device.DestroyRenderTarget(target)

	r.device.SetViewport(w, h)
	r.device.SetScissorEnabled(false)
	r.device.SetBlendEnabled(false)

	m := transform
	sampledW, sampledH := src.width, src.height
	if !crop.Empty() {
		sw, sh := float32(src.width), float32(src.height)
		// Undo the producer's flip, crop in top-left space, flip back.
		m = transform.
			Multiply(gpucore.FlipV()).
			Multiply(gpucore.Translate(float32(crop.Min.X)/sw, float32(crop.Min.Y)/sh)).
			Multiply(gpucore.Scale(float32(crop.Dx())/sw, float32(crop.Dy())/sh)).
			Multiply(gpucore.FlipV())
		sampledW, sampledH = crop.Dx(), crop.Dy()
	}
	filter := gputypes.FilterModeNearest
	if sampledW != w || sampledH != h {
		filter = gputypes.FilterModeLinear
	}
	log.Debug("pixelcopy: gpu readback",
		"source", image.Pt(src.width, src.height), "bitmap", image.Pt(w, h),
		"format", dst.Format(), "filter", filter)

	if err := r.device.DrawQuad(target, gpucore.Quad{Source: src.id, Transform: m, Filter: filter}); err != nil {
		log.Warn("pixelcopy: draw failed", "err", err)
		return UnknownError
	}
	pack := gpucore.PixelPack{Format: t.Format, Type: t.Type, Alignment: bpp, RowBytes: rowBytes}
	if err := r.device.ReadPixels(target, pack, pixels); err != nil {
		log.Warn("pixelcopy: read pixels failed", "err", err)
		return UnknownError
	}

	dst.NotifyPixelsChanged()
	return Success
}
