package gpucore

import "testing"

func TestBytesPerPixel(t *testing.T) {
	tests := []struct {
		f    TransferFormat
		ty   DataType
		want int
	}{
		{FormatAlpha, TypeUnsignedByte, 1},
		{FormatRGB, TypeUnsignedShort565, 2},
		{FormatRGBA, TypeUnsignedShort4444, 2},
		{FormatRGBA, TypeUnsignedByte, 4},
		{FormatRGBA, TypeHalfFloat, 8},
		{FormatRGB, TypeUnsignedByte, 3},
	}
	for _, tt := range tests {
		if got := BytesPerPixel(tt.f, tt.ty); got != tt.want {
			t.Errorf("BytesPerPixel(%v, %v) = %d, want %d", tt.f, tt.ty, got, tt.want)
		}
	}
}

func TestPixelPackStride(t *testing.T) {
	tests := []struct {
		name  string
		pack  PixelPack
		width int
		want  int
	}{
		{"explicit", PixelPack{Format: FormatRGBA, RowBytes: 64}, 4, 64},
		{"tight", PixelPack{Format: FormatRGBA, Alignment: 4}, 3, 12},
		{"aligned alpha", PixelPack{Format: FormatAlpha, Alignment: 4}, 3, 4},
		{"no alignment", PixelPack{Format: FormatAlpha}, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pack.Stride(tt.width); got != tt.want {
				t.Errorf("Stride(%d) = %d, want %d", tt.width, got, tt.want)
			}
		})
	}
}

func TestImageData(t *testing.T) {
	d := ImageData{Pixels: make([]byte, 3*16), Width: 3, Height: 3, RowBytes: 16}
	if !d.Valid() {
		t.Fatal("padded image should be valid")
	}
	if row := d.Row(2); len(row) != 12 {
		t.Errorf("len(Row(2)) = %d, want 12", len(row))
	}
	if d.Row(3) != nil || d.Row(-1) != nil {
		t.Error("out of range rows should be nil")
	}

	short := d
	short.Pixels = short.Pixels[:40]
	if short.Valid() {
		t.Error("truncated pixels should be invalid")
	}
	narrow := d
	narrow.RowBytes = 8
	if narrow.Valid() {
		t.Error("row bytes below width should be invalid")
	}
}

func TestEnumStrings(t *testing.T) {
	if FormatAlpha.String() != "Alpha" || TypeHalfFloat.String() != "HalfFloat" {
		t.Error("unexpected enum names")
	}
	if TransferFormat(99).String() != "Unknown" || DataType(99).String() != "Unknown" {
		t.Error("out of range enums should be Unknown")
	}
}
