package gpucore

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// Matrix4 is a 4x4 texture transform stored in column-major order:
// element (row r, column c) lives at index 4*c+r, the layout WGSL and GL
// uniforms expect.
//
//	| m[0]  m[4]  m[8]   m[12] |
//	| m[1]  m[5]  m[9]   m[13] |
//	| m[2]  m[6]  m[10]  m[14] |
//	| m[3]  m[7]  m[11]  m[15] |
//
// Multiplication composes right to left: a.Multiply(b) applies b first.
type Matrix4 [16]float32

// Element indices of the 2D affine terms.
const (
	ScaleX     = 0
	SkewY      = 1
	SkewX      = 4
	ScaleY     = 5
	TranslateX = 12
	TranslateY = 13
)

// matrixEpsilon is the tolerance used by Equal.
const matrixEpsilon = 1e-5

// Identity returns the identity matrix.
func Identity() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// FlipV returns the vertical flip v' = 1 - v.
//
// This is the transform under which a readback copies the source without
// change, and the default transform of producers that hand over buffers in
// top-down row order.
func FlipV() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, -1, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y float32) Matrix4 {
	m := Identity()
	m[TranslateX] = x
	m[TranslateY] = y
	return m
}

// Scale returns a scaling matrix.
func Scale(x, y float32) Matrix4 {
	m := Identity()
	m[ScaleX] = x
	m[ScaleY] = y
	return m
}

// Rotate90 returns the texture transform of a producer that delivers its
// buffer rotated a quarter turn: u' = v, v' = 1 - u.
func Rotate90() Matrix4 {
	return Matrix4{
		0, -1, 0, 0,
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 1,
	}
}

// FromMat4 converts a row-major f32.Mat4 into a Matrix4.
func FromMat4(r f32.Mat4) Matrix4 {
	var m Matrix4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m[4*col+row] = r[4*row+col]
		}
	}
	return m
}

// Mat4 returns m as a row-major f32.Mat4.
func (m Matrix4) Mat4() f32.Mat4 {
	var r f32.Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			r[4*row+col] = m[4*col+row]
		}
	}
	return r
}

// Multiply returns m * o.
func (m Matrix4) Multiply(o Matrix4) Matrix4 {
	var r Matrix4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[4*k+row] * o[4*col+k]
			}
			r[4*col+row] = sum
		}
	}
	return r
}

// Apply transforms the column vector v.
func (m Matrix4) Apply(v f32.Vec4) f32.Vec4 {
	var r f32.Vec4
	for row := 0; row < 4; row++ {
		r[row] = m[row]*v[0] + m[4+row]*v[1] + m[8+row]*v[2] + m[12+row]*v[3]
	}
	return r
}

// MapPoint transforms the 2D point (u, v) with z = 0, w = 1.
func (m Matrix4) MapPoint(u, v float32) (x, y float32) {
	r := m.Apply(f32.Vec4{u, v, 0, 1})
	if r[3] != 0 && r[3] != 1 {
		return r[0] / r[3], r[1] / r[3]
	}
	return r[0], r[1]
}

// Equal reports whether all elements of m and o differ by less than a small
// tolerance.
func (m Matrix4) Equal(o Matrix4) bool {
	for i := range m {
		if math32.Abs(m[i]-o[i]) > matrixEpsilon {
			return false
		}
	}
	return true
}

// IsRotated90 reports whether the transform carries a quarter or three
// quarter turn.
//
// The test only looks at the SkewX term against a 0.5 threshold. It is an
// approximation: a producer using an unusual shear can be misclassified.
func (m Matrix4) IsRotated90() bool {
	return math32.Abs(m[SkewX]) >= 0.5
}
