package gpucore

import (
	"testing"

	"golang.org/x/image/math/f32"
)

func TestFlipVMapsCorners(t *testing.T) {
	m := FlipV()
	tests := []struct {
		u, v   float32
		wx, wy float32
	}{
		{0, 0, 0, 1},
		{1, 1, 1, 0},
		{0.25, 0.75, 0.25, 0.25},
	}
	for _, tt := range tests {
		x, y := m.MapPoint(tt.u, tt.v)
		if x != tt.wx || y != tt.wy {
			t.Errorf("FlipV(%v, %v) = (%v, %v), want (%v, %v)", tt.u, tt.v, x, y, tt.wx, tt.wy)
		}
	}
}

func TestFlipVIsInvolution(t *testing.T) {
	if got := FlipV().Multiply(FlipV()); !got.Equal(Identity()) {
		t.Errorf("FlipV*FlipV = %v, want identity", got)
	}
}

func TestMultiplyAppliesRightFirst(t *testing.T) {
	// Scale then translate: (1,1) -> (2,3) -> (12,23).
	m := Translate(10, 20).Multiply(Scale(2, 3))
	x, y := m.MapPoint(1, 1)
	if x != 12 || y != 23 {
		t.Errorf("MapPoint = (%v, %v), want (12, 23)", x, y)
	}

	// Translate then scale: (1,1) -> (11,21) -> (22,63).
	m = Scale(2, 3).Multiply(Translate(10, 20))
	x, y = m.MapPoint(1, 1)
	if x != 22 || y != 63 {
		t.Errorf("MapPoint = (%v, %v), want (22, 63)", x, y)
	}
}

func TestMultiplyIdentity(t *testing.T) {
	m := Rotate90().Multiply(Translate(0.5, 0.25))
	if got := m.Multiply(Identity()); !got.Equal(m) {
		t.Errorf("m*I = %v, want %v", got, m)
	}
	if got := Identity().Multiply(m); !got.Equal(m) {
		t.Errorf("I*m = %v, want %v", got, m)
	}
}

func TestMat4RoundTrip(t *testing.T) {
	m := Translate(3, 4).Multiply(Rotate90())
	rm := m.Mat4()
	// Row-major element (row 0, col 3) is the x translation.
	if rm[3] != m[TranslateX] {
		t.Errorf("row-major translate x = %v, want %v", rm[3], m[TranslateX])
	}
	if got := FromMat4(rm); got != m {
		t.Errorf("FromMat4(Mat4()) = %v, want %v", got, m)
	}
}

func TestApply(t *testing.T) {
	got := Translate(1, 2).Apply(f32.Vec4{1, 1, 0, 1})
	want := f32.Vec4{2, 3, 0, 1}
	if got != want {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestIsRotated90(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix4
		want bool
	}{
		{"identity", Identity(), false},
		{"flip", FlipV(), false},
		{"rotate90", Rotate90(), true},
		{"rotate270", Rotate90().Multiply(Rotate90()).Multiply(Rotate90()), true},
		{"rotate180", Rotate90().Multiply(Rotate90()), false},
		{"below threshold", func() Matrix4 { m := Identity(); m[SkewX] = 0.49; return m }(), false},
		{"at threshold", func() Matrix4 { m := Identity(); m[SkewX] = -0.5; return m }(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsRotated90(); got != tt.want {
				t.Errorf("IsRotated90() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqualTolerance(t *testing.T) {
	m := FlipV()
	m[TranslateY] += 1e-7
	if !m.Equal(FlipV()) {
		t.Error("Equal should tolerate float noise")
	}
	m[TranslateY] += 0.01
	if m.Equal(FlipV()) {
		t.Error("Equal should reject a real difference")
	}
}
