package mesh

import (
	"github.com/annel0/geo/internal/geo"
	"github.com/annel0/geo/internal/vec"
)

// corners of the unit cube [-1, 1]^3. Bit 0 of the index selects +x, bit 1
// +y and bit 2 +z.
var corners = [8]geo.Vec3{
	{-1, -1, -1},
	{1, -1, -1},
	{-1, 1, -1},
	{1, 1, -1},
	{-1, -1, 1},
	{1, -1, 1},
	{-1, 1, 1},
	{1, 1, 1},
}

// faces holds two triangles per direction, counter-clockwise seen from
// outside the cube, indexed by vec.Direction.
var faces = [6][6]uint32{
	vec.PosX: {1, 3, 7, 1, 7, 5},
	vec.NegX: {0, 4, 6, 0, 6, 2},
	vec.PosY: {2, 6, 7, 2, 7, 3},
	vec.NegY: {0, 1, 5, 0, 5, 4},
	vec.PosZ: {4, 5, 7, 4, 7, 6},
	vec.NegZ: {0, 2, 3, 0, 3, 1},
}

const (
	cornersPerBlock = len(corners)
	indicesPerFace  = 6
)
