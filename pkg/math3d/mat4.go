package math3d

import "math"

// Mat4 is a 4x4 matrix stored in row-major order, used with the
// row-vector convention: points transform as p' = p * M, so a.Mul(b)
// applies a first, then b.
//
// Memory layout (indices):
// | 0  1  2  3  |
// | 4  5  6  7  |
// | 8  9  10 11 |
// | 12 13 14 15 |
//
// For a rigid transform the upper-left 3x3 rows are the basis vectors
// and the fourth row carries the translation.
//
// Matrices are values: composing motions builds a new matrix, it never
// mutates an existing one.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX creates a rotation matrix around the X axis (counter-clockwise
// for positive angles, looking down the axis toward the origin).
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies two matrices: a * b. Under the row-vector convention
// the product applies a's transform first, then b's.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row*4+k] * b[k*4+col]
			}
			m[row*4+col] = sum
		}
	}
	return m
}

// MulPoint transforms a Vec3 as a homogeneous point (w=1) and
// perspective-divides the result when the transformed w is not 1.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	x := v.X*m[0] + v.Y*m[4] + v.Z*m[8] + m[12]
	y := v.X*m[1] + v.Y*m[5] + v.Z*m[9] + m[13]
	z := v.X*m[2] + v.Y*m[6] + v.Z*m[10] + m[14]
	w := v.X*m[3] + v.Y*m[7] + v.Z*m[11] + m[15]
	if w != 1 && w != 0 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// MulDir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulDir(v Vec3) Vec3 {
	return Vec3{
		v.X*m[0] + v.Y*m[4] + v.Z*m[8],
		v.X*m[1] + v.Y*m[5] + v.Z*m[9],
		v.X*m[2] + v.Y*m[6] + v.Z*m[10],
	}
}

// MulVec4 transforms a Vec4 as a row vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		v.X*m[0] + v.Y*m[4] + v.Z*m[8] + v.W*m[12],
		v.X*m[1] + v.Y*m[5] + v.Z*m[9] + v.W*m[13],
		v.X*m[2] + v.Y*m[6] + v.Z*m[10] + v.W*m[14],
		v.X*m[3] + v.Y*m[7] + v.Z*m[11] + v.W*m[15],
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row*4+col]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row*4+col] = val
}

// Translation extracts the translation row.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}
