package pixelcopy

import (
	"errors"
	"image"

	"github.com/gogpu/pixelcopy/gpucore"
)

// errFallbackToGPU means the direct memory copy does not apply and the
// caller should render through the device instead. It never reaches the
// caller of a public method.
var errFallbackToGPU = errors.New("pixelcopy: fall back to GPU readback")

// copyFromDirectMapping copies buf into dst without touching the device
// when the buffer's memory is CPU addressable and no resampling is needed.
func (r *Readback) copyFromDirectMapping(buf *SourceBuffer, transform gpucore.Matrix4, crop image.Rectangle, dst Bitmap) (CopyResult, error) {
	if !r.cfg.PrivateReadback {
		return UnknownError, errFallbackToGPU
	}
	log := r.logger()

	w, h := dst.Width(), dst.Height()
	if crop.Empty() {
		if buf.Width != w || buf.Height != h {
			log.Debug("pixelcopy: fast path skipped, size mismatch",
				"buffer", image.Pt(buf.Width, buf.Height), "bitmap", image.Pt(w, h))
			return UnknownError, errFallbackToGPU
		}
	} else if crop.Dx() != w || crop.Dy() != h {
		log.Debug("pixelcopy: fast path skipped, crop needs scaling", "crop", crop, "bitmap", image.Pt(w, h))
		return UnknownError, errFallbackToGPU
	}
	if !transform.Equal(gpucore.FlipV()) {
		log.Debug("pixelcopy: fast path skipped, transform is not identity")
		return UnknownError, errFallbackToGPU
	}
	if dst.Format() != RGBA8888 {
		log.Debug("pixelcopy: fast path skipped, format", "format", dst.Format())
		return UnknownError, errFallbackToGPU
	}
	mapper, ok := buf.Memory.(DirectMapper)
	if !ok {
		return UnknownError, errFallbackToGPU
	}
	m, err := mapper.DirectMapping()
	if errors.Is(err, gpucore.ErrNotDirectlyMappable) {
		log.Debug("pixelcopy: fast path skipped, memory not mappable")
		return UnknownError, errFallbackToGPU
	}
	if err != nil {
		log.Warn("pixelcopy: invalid buffer handle", "err", err)
		return SourceInvalid, nil
	}
	if !m.Valid() || w > m.Width || h > m.Height {
		log.Warn("pixelcopy: mapped buffer smaller than bitmap",
			"mapped", image.Pt(m.Width, m.Height), "bitmap", image.Pt(w, h))
		return SourceInvalid, nil
	}

	pixels := dst.Pixels()
	rowBytes := dst.RowBytes()
	if pixels == nil || rowBytes < w*4 || len(pixels) < rowBytes*(h-1)+w*4 {
		return DestinationInvalid, nil
	}
	left, top := crop.Min.X, crop.Min.Y
	if left < 0 || top < 0 || left+w > m.Width || top+h > m.Height {
		return DestinationInvalid, nil
	}

	if crop.Empty() && w == m.Width && rowBytes == m.RowBytes {
		n := rowBytes * h
		if len(pixels) >= n && len(m.Pixels) >= n {
			copy(pixels[:n], m.Pixels[:n])
			dst.NotifyPixelsChanged()
			log.Debug("pixelcopy: fast path contiguous copy", "bytes", n)
			return Success, nil
		}
	}

	for y := 0; y < h; y++ {
		row := dst.Row(y)
		if len(row) < w*4 {
			return DestinationInvalid, nil
		}
		off := (top+y)*m.RowBytes + left*4
		copy(row[:w*4], m.Pixels[off:off+w*4])
	}
	dst.NotifyPixelsChanged()
	log.Debug("pixelcopy: fast path row copy", "rows", h)
	return Success, nil
}
