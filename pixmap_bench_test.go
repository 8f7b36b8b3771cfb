package pixelcopy

import "testing"

// BenchmarkPixmapToImage compares conversion cost across formats.
func BenchmarkPixmapToImage(b *testing.B) {
	for _, f := range []PixelFormat{Alpha8, RGB565, RGBA8888, RGBAF16} {
		pm := NewPixmap(512, 512, f)
		b.Run(f.String(), func(b *testing.B) {
			for b.Loop() {
				_ = pm.ToImage()
			}
		})
	}
}

func BenchmarkPixmapAt(b *testing.B) {
	pm := NewPixmap(256, 256, ARGB4444)
	for b.Loop() {
		for x := range 256 {
			_ = pm.At(x, 128)
		}
	}
}
