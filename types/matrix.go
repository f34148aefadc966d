package types

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Column-major 3x3 and 4x4 matrices backed by mgl32.
type Mat3 mgl32.Mat3
type Mat4 mgl32.Mat4

// 3x3 identity matrix.
func Ident3() Mat3 {
	return Mat3(mgl32.Ident3())
}

// 4x4 identity matrix.
func Ident4() Mat4 {
	return Mat4(mgl32.Ident4())
}

// Build a 3x3 matrix from its rows.
func Mat3FromRows(r0, r1, r2 Vec3) Mat3 {
	return Mat3(mgl32.Mat3FromRows(mgl32.Vec3(r0), mgl32.Vec3(r1), mgl32.Vec3(r2)))
}

// Build a 3x3 matrix from its columns.
func Mat3FromCols(c0, c1, c2 Vec3) Mat3 {
	return Mat3(mgl32.Mat3FromCols(mgl32.Vec3(c0), mgl32.Vec3(c1), mgl32.Vec3(c2)))
}

// Element at row, col.
func (m Mat3) At(row, col int) float32 {
	return mgl32.Mat3(m).At(row, col)
}

// Matrix determinant.
func (m Mat3) Det() float32 {
	return mgl32.Mat3(m).Det()
}

// Matrix inverse. A singular matrix yields the zero matrix; callers are
// expected to check Det first.
func (m Mat3) Inv() Mat3 {
	return Mat3(mgl32.Mat3(m).Inv())
}

// Multiply with a column vector.
func (m Mat3) Mul3x1(v Vec3) Vec3 {
	return Vec3(mgl32.Mat3(m).Mul3x1(mgl32.Vec3(v)))
}

// Multiply with another matrix.
func (m Mat3) Mul3(m2 Mat3) Mat3 {
	return Mat3(mgl32.Mat3(m).Mul3(mgl32.Mat3(m2)))
}

// Returns true if no element is NaN or infinite.
func (m Mat3) IsFinite() bool {
	return allFinite(m[:])
}

// Returns true if no element differs by more than threshold.
func (m Mat3) ApproxEqual(m2 Mat3, threshold float32) bool {
	return allWithin(m[:], m2[:], threshold)
}

func (m Mat3) String() string {
	return fmt.Sprintf(
		"[%3.3f %3.3f %3.3f]\n[%3.3f %3.3f %3.3f]\n[%3.3f %3.3f %3.3f]",
		m.At(0, 0), m.At(0, 1), m.At(0, 2),
		m.At(1, 0), m.At(1, 1), m.At(1, 2),
		m.At(2, 0), m.At(2, 1), m.At(2, 2),
	)
}

// Build a translation matrix.
func Translate4(v Vec3) Mat4 {
	return Mat4(mgl32.Translate3D(v[0], v[1], v[2]))
}

// Build a 4x4 transform from a linear part and a translation.
func Transform4(linear Mat3, translation Vec3) Mat4 {
	return Ident4().SetLinear(linear).SetTranslation(translation)
}

// Element at row, col.
func (m Mat4) At(row, col int) float32 {
	return mgl32.Mat4(m).At(row, col)
}

// Extract the top-left 3x3 (linear) part.
func (m Mat4) Mat3() Mat3 {
	return Mat3(mgl32.Mat4(m).Mat3())
}

// Extract the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// Return a copy with the linear part replaced.
func (m Mat4) SetLinear(linear Mat3) Mat4 {
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			m[col*4+row] = linear[col*3+row]
		}
	}
	return m
}

// Return a copy with the translation column replaced.
func (m Mat4) SetTranslation(v Vec3) Mat4 {
	m[12], m[13], m[14] = v[0], v[1], v[2]
	return m
}

// Multiply with a column vector.
func (m Mat4) Mul4x1(v Vec4) Vec4 {
	return Vec4(mgl32.Mat4(m).Mul4x1(mgl32.Vec4(v)))
}

// Rotation of angle radians around axis. The axis is normalized before use.
func AxisAngle3(axis Vec3, angle float32) Mat3 {
	return Mat3(mgl32.QuatRotate(angle, mgl32.Vec3(axis.Normalize())).Mat4().Mat3())
}

// Returns true if no element is NaN or infinite.
func (m Mat4) IsFinite() bool {
	return allFinite(m[:])
}

// Returns true if the bottom row is (0, 0, 0, 1).
func (m Mat4) IsAffine() bool {
	return m[3] == 0 && m[7] == 0 && m[11] == 0 && m[15] == 1
}

// Returns true if no element differs by more than threshold.
func (m Mat4) ApproxEqual(m2 Mat4, threshold float32) bool {
	return allWithin(m[:], m2[:], threshold)
}

func (m Mat4) String() string {
	return mgl32.Mat4(m).String()
}

func allFinite(values []float32) bool {
	for _, v := range values {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func allWithin(a, b []float32, threshold float32) bool {
	for idx := range a {
		if math32.Abs(a[idx]-b[idx]) > threshold {
			return false
		}
	}
	return true
}
