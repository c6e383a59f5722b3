package geo

import "github.com/chewxy/math32"

// All transforms are right handed and target OpenGL clip space (z in -1..1),
// matching counter-clockwise front faces.

// http://en.wikipedia.org/wiki/Translation_matrix
func Translation(v Vec3) Mat4 {
	return Mat4{
		{1, 0, 0, v[0]},
		{0, 1, 0, v[1]},
		{0, 0, 1, v[2]},
		{0, 0, 0, 1},
	}
}

// Scaling builds a scale transform: the identity with the diagonal scaled by
// v and the homogeneous entry left at 1.
// http://en.wikipedia.org/wiki/Scaling_matrix
func Scaling(v Vec3) Mat4 {
	return Mat4{
		{v[0], 0, 0, 0},
		{0, v[1], 0, 0},
		{0, 0, v[2], 0},
		{0, 0, 0, 1},
	}
}

// UniformScaling is Scaling with the same factor on every axis.
func UniformScaling(s float32) Mat4 {
	return Scaling(Broadcast3(s))
}

// Rotation rotates by angle radians around axis, counter-clockwise when
// looking down the axis towards the origin.
// http://en.wikipedia.org/wiki/Rotation_matrix
func Rotation(angle float32, axis Vec3) Mat4 {
	u := axis.Normalize()
	x, y, z := u[0], u[1], u[2]
	sin, cos := math32.Sin(angle), math32.Cos(angle)
	k := 1 - cos

	return Mat4{
		{x*x*k + cos, x*y*k - z*sin, x*z*k + y*sin, 0},
		{y*x*k + z*sin, y*y*k + cos, y*z*k - x*sin, 0},
		{z*x*k - y*sin, z*y*k + x*sin, z*z*k + cos, 0},
		{0, 0, 0, 1},
	}
}

// Perspective builds a projection from a vertical field of view in radians
// and the viewport size in pixels.
func Perspective(fov, width, height, near, far float32) Mat4 {
	f := 1 / math32.Tan(fov/2)
	fmn := far - near

	return Mat4{
		{f * height / width, 0, 0, 0},
		{0, f, 0, 0},
		{0, 0, -(far + near) / fmn, -2 * far * near / fmn},
		{0, 0, -1, 0},
	}
}

// LookAt builds the view matrix of an eye looking at target. forward and up
// must not be parallel.
func LookAt(eye, target, up Vec3) Mat4 {
	forward := target.Sub(eye).Normalize()
	right := forward.Cross(up).Normalize()
	camUp := right.Cross(forward)

	return Mat4{
		{right[0], right[1], right[2], -right.Dot(eye)},
		{camUp[0], camUp[1], camUp[2], -camUp.Dot(eye)},
		{-forward[0], -forward[1], -forward[2], forward.Dot(eye)},
		{0, 0, 0, 1},
	}
}
