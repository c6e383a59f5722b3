package geo

import (
	"errors"
	"fmt"
)

// ErrSingularMatrix is returned by Inverse when the determinant is 0.
var ErrSingularMatrix = errors.New("geo: matrix is singular")

/*	row first, m[row][col]
	+-              -+   +-          -+
	| 00  01  02  03 |   | 1  0  0  x |
	| 10  11  12  13 |   | 0  1  0  y |
	| 20  21  22  23 |   | 0  0  1  z |
	| 30  31  32  33 |   | 0  0  0  1 |
	+-              -+   +-          -+
*/
type Mat4 [4][4]float32

type Mat3 [3][3]float32

type Mat2 [2][2]float32

func Ident2() Mat2 { return Mat2{{1, 0}, {0, 1}} }

func Ident3() Mat3 { return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} }

func Ident4() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Null2, Null3 and Null4 return the zero matrix.
func Null2() Mat2 { return Mat2{} }
func Null3() Mat3 { return Mat3{} }
func Null4() Mat4 { return Mat4{} }

// Mat2

func (m Mat2) At(row, col int) float32 { return m[row][col] }

func (m Mat2) Mul(o Mat2) (out Mat2) {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j]
		}
	}
	return
}

func (m Mat2) Apply(v Vec2) Vec2 {
	return Vec2{
		m[0][0]*v[0] + m[0][1]*v[1],
		m[1][0]*v[0] + m[1][1]*v[1],
	}
}

func (m Mat2) Transpose() Mat2 {
	return Mat2{{m[0][0], m[1][0]}, {m[0][1], m[1][1]}}
}

// The cyclic diagonal rule degenerates to zero for 2x2, so use ad-bc.
func (m Mat2) Det() float32 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// Mat3

func (m Mat3) At(row, col int) float32 { return m[row][col] }

func (m Mat3) Row(i int) Vec3 { return Vec3(m[i]) }

func (m Mat3) Col(j int) Vec3 { return Vec3{m[0][j], m[1][j], m[2][j]} }

func (m Mat3) Mul(o Mat3) (out Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m.Row(i).Dot(o.Col(j))
		}
	}
	return
}

func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{m.Row(0).Dot(v), m.Row(1).Dot(v), m.Row(2).Dot(v)}
}

func (m Mat3) Transpose() Mat3 {
	return Mat3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

// Det sums the three forward cyclic diagonals and subtracts the three
// backward ones (rule of Sarrus). Only exact for 3x3.
func (m Mat3) Det() float32 {
	const n = 3

	var forward, backward float32
	for k := 0; k < n; k++ {
		f, b := float32(1), float32(1)
		for i := 0; i < n; i++ {
			f *= m[i][(i+k)%n]
			b *= m[i][(k-i+n)%n]
		}
		forward += f
		backward += b
	}

	return forward - backward
}

// Inverse returns the adjugate divided by the determinant.
func (m Mat3) Inverse() (Mat3, error) {
	det := m.Det()
	if det == 0 {
		return Mat3{}, ErrSingularMatrix
	}

	r0, r1, r2 := m.Row(0), m.Row(1), m.Row(2)
	c0, c1, c2 := r1.Cross(r2), r2.Cross(r0), r0.Cross(r1)

	inv := 1 / det
	return Mat3{
		{c0[0] * inv, c1[0] * inv, c2[0] * inv},
		{c0[1] * inv, c1[1] * inv, c2[1] * inv},
		{c0[2] * inv, c1[2] * inv, c2[2] * inv},
	}, nil
}

func (m Mat3) ApproxEqual(o Mat3, epsilon float32) bool {
	for i := 0; i < 3; i++ {
		if !m.Row(i).ApproxEqual(o.Row(i), epsilon) {
			return false
		}
	}
	return true
}

// Mat4

func (m Mat4) String() string {
	r := ""
	for i, row := range m {
		if i > 0 {
			r += "\n"
		}
		r += Vec4(row).String()
	}
	return r
}

func (m Mat4) At(row, col int) float32 { return m[row][col] }

func (m Mat4) Row(i int) Vec4 { return Vec4(m[i]) }

func (m Mat4) Col(j int) Vec4 { return Vec4{m[0][j], m[1][j], m[2][j], m[3][j]} }

// http://en.wikipedia.org/wiki/Matrix_multiplication
func (m Mat4) Mul(o Mat4) (out Mat4) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j] + m[i][3]*o[3][j]
		}
	}
	return
}

// Apply returns the matrix-vector product m*v.
func (m Mat4) Apply(v Vec4) Vec4 {
	return Vec4{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2] + m[0][3]*v[3],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2] + m[1][3]*v[3],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2] + m[2][3]*v[3],
		m[3][0]*v[0] + m[3][1]*v[1] + m[3][2]*v[2] + m[3][3]*v[3],
	}
}

// ScaleEntries multiplies every entry, the homogeneous row included, by s.
// It is not a scale transform; see Scaling for that.
func (m Mat4) ScaleEntries(s float32) (out Mat4) {
	for i := range m {
		out[i] = Vec4(m[i]).Scale(s)
	}
	return
}

// Scale post-multiplies m by the scale transform of v.
func (m Mat4) Scale(v Vec3) Mat4 { return m.Mul(Scaling(v)) }

// Translate post-multiplies m by the translation of v.
func (m Mat4) Translate(v Vec3) Mat4 { return m.Mul(Translation(v)) }

func (m Mat4) Transpose() (out Mat4) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = m[j][i]
		}
	}
	return
}

// minor returns m without row r and column c.
func (m Mat4) minor(r, c int) (out Mat3) {
	oi := 0
	for i := 0; i < 4; i++ {
		if i == r {
			continue
		}
		oj := 0
		for j := 0; j < 4; j++ {
			if j == c {
				continue
			}
			out[oi][oj] = m[i][j]
			oj++
		}
		oi++
	}
	return
}

// Det is the cofactor expansion along the first row.
func (m Mat4) Det() float32 {
	var det float32
	sign := float32(1)
	for j := 0; j < 4; j++ {
		det += sign * m[0][j] * m.minor(0, j).Det()
		sign = -sign
	}
	return det
}

// Inverse expands m by complementary 2x2 minors of the upper and lower row
// pairs. Returns ErrSingularMatrix when the determinant is 0.
func (m Mat4) Inverse() (Mat4, error) {
	s0 := m[0][0]*m[1][1] - m[1][0]*m[0][1]
	s1 := m[0][0]*m[1][2] - m[1][0]*m[0][2]
	s2 := m[0][0]*m[1][3] - m[1][0]*m[0][3]
	s3 := m[0][1]*m[1][2] - m[1][1]*m[0][2]
	s4 := m[0][1]*m[1][3] - m[1][1]*m[0][3]
	s5 := m[0][2]*m[1][3] - m[1][2]*m[0][3]

	c5 := m[2][2]*m[3][3] - m[3][2]*m[2][3]
	c4 := m[2][1]*m[3][3] - m[3][1]*m[2][3]
	c3 := m[2][1]*m[3][2] - m[3][1]*m[2][2]
	c2 := m[2][0]*m[3][3] - m[3][0]*m[2][3]
	c1 := m[2][0]*m[3][2] - m[3][0]*m[2][2]
	c0 := m[2][0]*m[3][1] - m[3][0]*m[2][1]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Mat4{}, ErrSingularMatrix
	}
	inv := 1 / det

	return Mat4{
		{
			(m[1][1]*c5 - m[1][2]*c4 + m[1][3]*c3) * inv,
			(-m[0][1]*c5 + m[0][2]*c4 - m[0][3]*c3) * inv,
			(m[3][1]*s5 - m[3][2]*s4 + m[3][3]*s3) * inv,
			(-m[2][1]*s5 + m[2][2]*s4 - m[2][3]*s3) * inv,
		},
		{
			(-m[1][0]*c5 + m[1][2]*c2 - m[1][3]*c1) * inv,
			(m[0][0]*c5 - m[0][2]*c2 + m[0][3]*c1) * inv,
			(-m[3][0]*s5 + m[3][2]*s2 - m[3][3]*s1) * inv,
			(m[2][0]*s5 - m[2][2]*s2 + m[2][3]*s1) * inv,
		},
		{
			(m[1][0]*c4 - m[1][1]*c2 + m[1][3]*c0) * inv,
			(-m[0][0]*c4 + m[0][1]*c2 - m[0][3]*c0) * inv,
			(m[3][0]*s4 - m[3][1]*s2 + m[3][3]*s0) * inv,
			(-m[2][0]*s4 + m[2][1]*s2 - m[2][3]*s0) * inv,
		},
		{
			(-m[1][0]*c3 + m[1][1]*c1 - m[1][2]*c0) * inv,
			(m[0][0]*c3 - m[0][1]*c1 + m[0][2]*c0) * inv,
			(-m[3][0]*s3 + m[3][1]*s1 - m[3][2]*s0) * inv,
			(m[2][0]*s3 - m[2][1]*s1 + m[2][2]*s0) * inv,
		},
	}, nil
}

func (m Mat4) ApproxEqual(o Mat4, epsilon float32) bool {
	for i := 0; i < 4; i++ {
		if !m.Row(i).ApproxEqual(o.Row(i), epsilon) {
			return false
		}
	}
	return true
}

// Float32 flattens m column first, the layout glUniformMatrix4fv expects
// without transposition.
func (m Mat4) Float32() [16]float32 {
	var out [16]float32
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			out[j*4+i] = m[i][j]
		}
	}
	return out
}

func (m Mat3) String() string {
	return fmt.Sprintf("%v\n%v\n%v", m.Row(0), m.Row(1), m.Row(2))
}
