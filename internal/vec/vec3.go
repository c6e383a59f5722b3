package vec

import "fmt"

// Vec3 is an integer cell coordinate inside a voxel grid.
type Vec3 struct {
	X int
	Y int
	Z int
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}

// Add returns the component-wise sum.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Equals reports whether both coordinates match.
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// DistanceSquared returns the squared euclidean distance to other.
func (v Vec3) DistanceSquared(other Vec3) int {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

// InCube reports whether every component lies in [0, length).
func (v Vec3) InCube(length int) bool {
	return v.X >= 0 && v.X < length &&
		v.Y >= 0 && v.Y < length &&
		v.Z >= 0 && v.Z < length
}

// Neighbor returns the adjacent cell in direction d.
func (v Vec3) Neighbor(d Direction) Vec3 {
	return v.Add(d.Offset())
}
