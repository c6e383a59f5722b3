package geo

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrZeroVector is the panic value of Normalize on a vector of magnitude 0.
var ErrZeroVector = errors.New("geo: normalize of zero vector")

// Vec2 is a two component value vector.
type Vec2 [2]float32

// Vec3 is a three component value vector.
type Vec3 [3]float32

// Vec4 is a four component value vector, usually a homogeneous point.
type Vec4 [4]float32

// Broadcast2 returns a Vec2 with every component set to s.
func Broadcast2(s float32) Vec2 { return Vec2{s, s} }

// Broadcast3 returns a Vec3 with every component set to s.
func Broadcast3(s float32) Vec3 { return Vec3{s, s, s} }

// Broadcast4 returns a Vec4 with every component set to s.
func Broadcast4(s float32) Vec4 { return Vec4{s, s, s, s} }

// Vec2

func (v Vec2) X() float32 { return v[0] }
func (v Vec2) Y() float32 { return v[1] }

func (v Vec2) String() string {
	return fmt.Sprintf("%5.2f %5.2f", v[0], v[1])
}

// Vec3 extends v with fill as the third component.
func (v Vec2) Vec3(fill float32) Vec3 { return Vec3{v[0], v[1], fill} }

// Vec4 extends v, padding both missing components with fill.
func (v Vec2) Vec4(fill float32) Vec4 { return Vec4{v[0], v[1], fill, fill} }

func (v Vec2) Scale(s float32) Vec2 { return Vec2{v[0] * s, v[1] * s} }
func (v Vec2) Invert() Vec2 { return Vec2{-v[0], -v[1]} }
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v[0] + o[0], v[1] + o[1]} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v[0] - o[0], v[1] - o[1]} }

// Mul is the component-wise product.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v[0] * o[0], v[1] * o[1]} }

func (v Vec2) Total() float32 { return v[0] + v[1] }
func (v Vec2) Dot(o Vec2) float32 { return v.Mul(o).Total() }
func (v Vec2) Magnitude() float32 { return math32.Sqrt(v.Dot(v)) }
func (v Vec2) Distance(o Vec2) float32 { return v.Sub(o).Magnitude() }

// Normalize scales v to unit length. v must not be the zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Magnitude()
	if l == 0 {
		panic(ErrZeroVector)
	}
	return v.Scale(1 / l)
}

func (v Vec2) ApproxEqual(o Vec2, epsilon float32) bool {
	return NearlyEqual(v[0], o[0], epsilon) && NearlyEqual(v[1], o[1], epsilon)
}

// Vec3

func (v Vec3) X() float32 { return v[0] }
func (v Vec3) Y() float32 { return v[1] }
func (v Vec3) Z() float32 { return v[2] }

func (v Vec3) String() string {
	return fmt.Sprintf("%5.2f %5.2f %5.2f", v[0], v[1], v[2])
}

// Vec2 truncates v to its first two components.
func (v Vec3) Vec2() Vec2 { return Vec2{v[0], v[1]} }

// Vec4 extends v with fill as the fourth component. A fill of 1 makes a
// homogeneous point, 0 a direction.
func (v Vec3) Vec4(fill float32) Vec4 { return Vec4{v[0], v[1], v[2], fill} }

func (v Vec3) Scale(s float32) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }
func (v Vec3) Invert() Vec3 { return Vec3{-v[0], -v[1], -v[2]} }
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

// Mul is the component-wise product.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v[0] * o[0], v[1] * o[1], v[2] * o[2]} }

func (v Vec3) Total() float32 { return v[0] + v[1] + v[2] }
func (v Vec3) Dot(o Vec3) float32 { return v.Mul(o).Total() }
func (v Vec3) Magnitude() float32 { return math32.Sqrt(v.Dot(v)) }
func (v Vec3) Distance(o Vec3) float32 { return v.Sub(o).Magnitude() }

// Normalize scales v to unit length. v must not be the zero vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Magnitude()
	if l == 0 {
		panic(ErrZeroVector)
	}
	return v.Scale(1 / l)
}

// http://en.wikipedia.org/wiki/Cross_product
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vec3) ApproxEqual(o Vec3, epsilon float32) bool {
	return NearlyEqual(v[0], o[0], epsilon) &&
		NearlyEqual(v[1], o[1], epsilon) &&
		NearlyEqual(v[2], o[2], epsilon)
}

// Vec4

func (v Vec4) X() float32 { return v[0] }
func (v Vec4) Y() float32 { return v[1] }
func (v Vec4) Z() float32 { return v[2] }
func (v Vec4) W() float32 { return v[3] }

func (v Vec4) String() string {
	return fmt.Sprintf("%5.2f %5.2f %5.2f %5.2f", v[0], v[1], v[2], v[3])
}

// Vec3 truncates v to its first three components.
func (v Vec4) Vec3() Vec3 { return Vec3{v[0], v[1], v[2]} }

// Vec2 truncates v to its first two components.
func (v Vec4) Vec2() Vec2 { return Vec2{v[0], v[1]} }

func (v Vec4) Scale(s float32) Vec4 { return Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s} }
func (v Vec4) Invert() Vec4 { return Vec4{-v[0], -v[1], -v[2], -v[3]} }

func (v Vec4) Add(o Vec4) Vec4 {
	return Vec4{v[0] + o[0], v[1] + o[1], v[2] + o[2], v[3] + o[3]}
}

func (v Vec4) Sub(o Vec4) Vec4 {
	return Vec4{v[0] - o[0], v[1] - o[1], v[2] - o[2], v[3] - o[3]}
}

// Mul is the component-wise product.
func (v Vec4) Mul(o Vec4) Vec4 {
	return Vec4{v[0] * o[0], v[1] * o[1], v[2] * o[2], v[3] * o[3]}
}

func (v Vec4) Total() float32 { return v[0] + v[1] + v[2] + v[3] }
func (v Vec4) Dot(o Vec4) float32 { return v.Mul(o).Total() }
func (v Vec4) Magnitude() float32 { return math32.Sqrt(v.Dot(v)) }
func (v Vec4) Distance(o Vec4) float32 { return v.Sub(o).Magnitude() }

// Normalize scales v to unit length. v must not be the zero vector.
func (v Vec4) Normalize() Vec4 {
	l := v.Magnitude()
	if l == 0 {
		panic(ErrZeroVector)
	}
	return v.Scale(1 / l)
}

func (v Vec4) ApproxEqual(o Vec4, epsilon float32) bool {
	return NearlyEqual(v[0], o[0], epsilon) &&
		NearlyEqual(v[1], o[1], epsilon) &&
		NearlyEqual(v[2], o[2], epsilon) &&
		NearlyEqual(v[3], o[3], epsilon)
}
