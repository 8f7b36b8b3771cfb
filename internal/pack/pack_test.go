package pack

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/pixelcopy/gpucore"
)

func TestUnorm8(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{0, 0},
		{1, 255},
		{-1, 0},
		{2, 255},
		{0.5, 128},
		{float32(17) / 255, 17},
	}
	for _, tt := range tests {
		if got := Unorm8(tt.in); got != tt.want {
			t.Errorf("Unorm8(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestUnorm8RoundTripsAllBytes(t *testing.T) {
	for b := 0; b < 256; b++ {
		if got := Unorm8(float32(b) / 255); int(got) != b {
			t.Fatalf("Unorm8(%d/255) = %d", b, got)
		}
	}
}

func TestPixelLayouts(t *testing.T) {
	red := [4]float32{1, 0, 0, 1}
	tests := []struct {
		name string
		c    [4]float32
		f    gpucore.TransferFormat
		ty   gpucore.DataType
		want []byte
	}{
		{"rgba8", [4]float32{1, 0, 0.5, 1}, gpucore.FormatRGBA, gpucore.TypeUnsignedByte, []byte{255, 0, 128, 255}},
		{"alpha8", [4]float32{1, 1, 1, float32(64) / 255}, gpucore.FormatAlpha, gpucore.TypeUnsignedByte, []byte{64}},
		{"565 red", red, gpucore.FormatRGB, gpucore.TypeUnsignedShort565, le16(0xF800)},
		{"565 green", [4]float32{0, 1, 0, 1}, gpucore.FormatRGB, gpucore.TypeUnsignedShort565, le16(0x07E0)},
		{"565 blue", [4]float32{0, 0, 1, 1}, gpucore.FormatRGB, gpucore.TypeUnsignedShort565, le16(0x001F)},
		{"4444 red", red, gpucore.FormatRGBA, gpucore.TypeUnsignedShort4444, le16(0xF00F)},
		{"4444 alpha", [4]float32{0, 0, 0, 1}, gpucore.FormatRGBA, gpucore.TypeUnsignedShort4444, le16(0x000F)},
		{"f16", [4]float32{1, 0, 0.5, 1}, gpucore.FormatRGBA, gpucore.TypeHalfFloat, []byte{0x00, 0x3C, 0, 0, 0x00, 0x38, 0x00, 0x3C}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]byte, gpucore.BytesPerPixel(tt.f, tt.ty))
			Pixel(got, tt.c, tt.f, tt.ty)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Pixel = % x, want % x", got, tt.want)
			}
		})
	}
}

func TestHalfRoundTrip(t *testing.T) {
	for _, v := range []float32{0, 0.25, 0.5, 1, -2, 1024} {
		if got := FromHalf(Half(v)); got != v {
			t.Errorf("FromHalf(Half(%v)) = %v", v, got)
		}
	}
}

func TestImageHonorsStride(t *testing.T) {
	src := []float32{
		1, 1, 1, 0.2, 1, 1, 1, 0.4,
		1, 1, 1, 0.6, 1, 1, 1, 0.8,
	}
	dst := bytes.Repeat([]byte{0xAA}, 8)
	if err := Image(dst, 4, src, 2, 2, gpucore.FormatAlpha, gpucore.TypeUnsignedByte); err != nil {
		t.Fatal(err)
	}
	want := []byte{51, 102, 0xAA, 0xAA, 153, 204, 0xAA, 0xAA}
	if !bytes.Equal(dst, want) {
		t.Errorf("Image = %v, want %v", dst, want)
	}
}

func TestImageErrors(t *testing.T) {
	src := make([]float32, 4*4)
	if err := Image(make([]byte, 10), 8, src, 2, 2, gpucore.FormatRGBA, gpucore.TypeUnsignedByte); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("short dst: err = %v, want ErrShortBuffer", err)
	}
	if err := Image(make([]byte, 64), 4, src, 2, 2, gpucore.FormatRGBA, gpucore.TypeUnsignedByte); err == nil {
		t.Error("stride below row size should fail")
	}
	if err := Image(make([]byte, 64), 8, src[:4], 2, 2, gpucore.FormatRGBA, gpucore.TypeUnsignedByte); err == nil {
		t.Error("short source should fail")
	}
}

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func BenchmarkImageRGBA8(b *testing.B) {
	const w, h = 256, 256
	src := make([]float32, w*h*4)
	dst := make([]byte, w*h*4)
	for b.Loop() {
		_ = Image(dst, w*4, src, w, h, gpucore.FormatRGBA, gpucore.TypeUnsignedByte)
	}
}
