package pixelcopy

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync/atomic"

	"github.com/gogpu/pixelcopy/internal/pack"
)

// Pixmap is a Bitmap backed by a Go byte slice.
type Pixmap struct {
	width    int
	height   int
	format   PixelFormat
	rowBytes int
	data     []byte

	// generation is bumped by NotifyPixelsChanged.
	generation atomic.Uint64
}

var _ Bitmap = (*Pixmap)(nil)

// NewPixmap creates a pixmap with tightly packed rows.
func NewPixmap(width, height int, format PixelFormat) *Pixmap {
	return NewPixmapStride(width, height, format, width*format.BytesPerPixel())
}

// NewPixmapStride creates a pixmap whose rows are rowBytes apart.
// rowBytes below the packed row size is raised to it.
func NewPixmapStride(width, height int, format PixelFormat, rowBytes int) *Pixmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if packed := width * format.BytesPerPixel(); rowBytes < packed {
		rowBytes = packed
	}
	return &Pixmap{
		width:    width,
		height:   height,
		format:   format,
		rowBytes: rowBytes,
		data:     make([]byte, rowBytes*height),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Format returns the pixel format.
func (p *Pixmap) Format() PixelFormat {
	return p.format
}

// Pixels returns the raw pixel memory, or nil for an empty pixmap.
func (p *Pixmap) Pixels() []byte {
	if len(p.data) == 0 {
		return nil
	}
	return p.data
}

// RowBytes returns the row pitch.
func (p *Pixmap) RowBytes() int {
	return p.rowBytes
}

// Row returns the pixel bytes of row y, without padding.
func (p *Pixmap) Row(y int) []byte {
	if y < 0 || y >= p.height {
		return nil
	}
	off := y * p.rowBytes
	return p.data[off : off+p.width*p.format.BytesPerPixel()]
}

// NotifyPixelsChanged bumps the generation ID.
func (p *Pixmap) NotifyPixelsChanged() {
	p.generation.Add(1)
}

// GenerationID returns how many times the contents were reported changed.
func (p *Pixmap) GenerationID() uint64 {
	return p.generation.Load()
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.NRGBA{}
	}
	bpp := p.format.BytesPerPixel()
	px := p.data[y*p.rowBytes+x*bpp:]
	switch p.format {
	case Alpha8:
		return color.Alpha{A: px[0]}
	case RGB565:
		v := binary.LittleEndian.Uint16(px)
		r, g, b := uint8(v>>11), uint8(v>>5&0x3F), uint8(v&0x1F)
		return color.NRGBA{R: r<<3 | r>>2, G: g<<2 | g>>4, B: b<<3 | b>>2, A: 0xFF}
	case ARGB4444:
		v := binary.LittleEndian.Uint16(px)
		return color.NRGBA{
			R: uint8(v>>12) * 17,
			G: uint8(v>>8&0xF) * 17,
			B: uint8(v>>4&0xF) * 17,
			A: uint8(v&0xF) * 17,
		}
	case RGBAF16:
		var c [4]uint16
		for i := range c {
			f := pack.FromHalf(binary.LittleEndian.Uint16(px[2*i:]))
			c[i] = uint16(clamp01(f)*0xFFFF + 0.5)
		}
		return color.NRGBA64{R: c[0], G: c[1], B: c[2], A: c[3]}
	case RGBA8888:
		return color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
	default:
		return color.NRGBA{}
	}
}

func clamp01(f float32) float32 {
	switch {
	case f < 0 || f != f:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	switch p.format {
	case Alpha8:
		return color.AlphaModel
	case RGBAF16:
		return color.NRGBA64Model
	default:
		return color.NRGBAModel
	}
}

// ToImage converts the pixmap to a standard library image.
// RGBA8888 and Alpha8 rows are copied directly; other formats are decoded.
func (p *Pixmap) ToImage() image.Image {
	bounds := p.Bounds()
	switch p.format {
	case Alpha8:
		img := image.NewAlpha(bounds)
		for y := 0; y < p.height; y++ {
			copy(img.Pix[y*img.Stride:], p.Row(y))
		}
		return img
	case RGBA8888:
		img := image.NewNRGBA(bounds)
		for y := 0; y < p.height; y++ {
			copy(img.Pix[y*img.Stride:], p.Row(y))
		}
		return img
	default:
		img := image.NewNRGBA64(bounds)
		for y := 0; y < p.height; y++ {
			for x := 0; x < p.width; x++ {
				img.Set(x, y, p.At(x, y))
			}
		}
		return img
	}
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, p.ToImage()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
