package pixelcopy

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/pixelcopy/internal/pack"
)

func TestNewPixmap(t *testing.T) {
	tests := []struct {
		format   PixelFormat
		rowBytes int
	}{
		{Alpha8, 3},
		{RGB565, 6},
		{ARGB4444, 6},
		{RGBA8888, 12},
		{RGBAF16, 24},
	}
	for _, tt := range tests {
		p := NewPixmap(3, 2, tt.format)
		if p.RowBytes() != tt.rowBytes {
			t.Errorf("%v: RowBytes() = %d, want %d", tt.format, p.RowBytes(), tt.rowBytes)
		}
		if len(p.Pixels()) != tt.rowBytes*2 {
			t.Errorf("%v: len(Pixels()) = %d, want %d", tt.format, len(p.Pixels()), tt.rowBytes*2)
		}
	}
}

func TestPixmapStride(t *testing.T) {
	p := NewPixmapStride(2, 2, RGBA8888, 12)
	if p.RowBytes() != 12 {
		t.Errorf("RowBytes() = %d, want 12", p.RowBytes())
	}
	if len(p.Row(1)) != 8 {
		t.Errorf("len(Row(1)) = %d, want 8", len(p.Row(1)))
	}
	if p.Row(2) != nil || p.Row(-1) != nil {
		t.Error("out of range rows should be nil")
	}
	if q := NewPixmapStride(4, 1, RGBA8888, 2); q.RowBytes() != 16 {
		t.Errorf("short stride should be raised, got %d", q.RowBytes())
	}
}

func TestPixmapEmptyHasNoPixels(t *testing.T) {
	if NewPixmap(0, 0, RGBA8888).Pixels() != nil {
		t.Error("empty pixmap should report nil pixels")
	}
}

func TestPixmapGeneration(t *testing.T) {
	p := NewPixmap(1, 1, RGBA8888)
	p.NotifyPixelsChanged()
	p.NotifyPixelsChanged()
	if p.GenerationID() != 2 {
		t.Errorf("GenerationID() = %d, want 2", p.GenerationID())
	}
}

func TestPixmapAt(t *testing.T) {
	a := NewPixmap(1, 1, Alpha8)
	a.Pixels()[0] = 0x80
	if got := a.At(0, 0); got != (color.Alpha{A: 0x80}) {
		t.Errorf("Alpha8 At = %v", got)
	}

	rgb := NewPixmap(1, 1, RGB565)
	binary.LittleEndian.PutUint16(rgb.Pixels(), 0xF800)
	if got := rgb.At(0, 0); got != (color.NRGBA{R: 0xFF, A: 0xFF}) {
		t.Errorf("RGB565 At = %v", got)
	}

	argb := NewPixmap(1, 1, ARGB4444)
	binary.LittleEndian.PutUint16(argb.Pixels(), 0x0F0F)
	if got := argb.At(0, 0); got != (color.NRGBA{G: 0xFF, A: 0xFF}) {
		t.Errorf("ARGB4444 At = %v", got)
	}

	f16 := NewPixmap(1, 1, RGBAF16)
	for i, v := range []float32{1, 0, 0.5, 1} {
		binary.LittleEndian.PutUint16(f16.Pixels()[2*i:], pack.Half(v))
	}
	if got := f16.At(0, 0); got != (color.NRGBA64{R: 0xFFFF, B: 0x8000, A: 0xFFFF}) {
		t.Errorf("RGBAF16 At = %v", got)
	}

	rgba := NewPixmap(1, 1, RGBA8888)
	copy(rgba.Pixels(), []byte{1, 2, 3, 4})
	if got := rgba.At(0, 0); got != (color.NRGBA{1, 2, 3, 4}) {
		t.Errorf("RGBA8888 At = %v", got)
	}
	if got := rgba.At(5, 5); got != (color.NRGBA{}) {
		t.Errorf("out of bounds At = %v", got)
	}
}

func TestPixmapToImage(t *testing.T) {
	p := NewPixmapStride(2, 2, RGBA8888, 12)
	copy(p.Row(1), []byte{9, 8, 7, 6, 5, 4, 3, 2})
	img, ok := p.ToImage().(*image.NRGBA)
	if !ok {
		t.Fatalf("ToImage() = %T, want *image.NRGBA", p.ToImage())
	}
	if got := img.NRGBAAt(1, 1); got != (color.NRGBA{5, 4, 3, 2}) {
		t.Errorf("NRGBAAt(1, 1) = %v", got)
	}

	if _, ok := NewPixmap(2, 2, Alpha8).ToImage().(*image.Alpha); !ok {
		t.Error("Alpha8 should convert to *image.Alpha")
	}
	if _, ok := NewPixmap(2, 2, RGB565).ToImage().(*image.NRGBA64); !ok {
		t.Error("RGB565 should convert to *image.NRGBA64")
	}
}

func TestPixmapSavePNG(t *testing.T) {
	p := NewPixmap(2, 1, RGBA8888)
	copy(p.Pixels(), []byte{255, 0, 0, 255, 0, 0, 255, 255})
	path := filepath.Join(t.TempDir(), "out.png")
	if err := p.SavePNG(path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0xFFFF {
		t.Errorf("decoded red = %#x, want 0xffff", r)
	}
}
