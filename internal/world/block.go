package world

import (
	"github.com/annel0/geo/internal/geo"
)

// Block is a solid voxel. It carries only its color and owns nothing.
type Block struct {
	Color geo.Vec3
}

// NewBlock creates a block of the given color.
func NewBlock(color geo.Vec3) Block {
	return Block{Color: color}
}

// Cell is one slot of a grid. An empty cell has Solid == false and a zero
// Block; a solid cell holds exactly one Block by value.
type Cell struct {
	Solid bool
	Block Block
}
