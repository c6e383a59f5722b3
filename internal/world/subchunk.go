package world

import (
	"fmt"

	"github.com/annel0/geo/internal/vec"
)

// Subchunk is a cube of Length^3 cells stored by value in one slice.
// Cells are laid out x-major, then y, then z, which is also the traversal
// order of Each.
type Subchunk struct {
	length int
	cells  []Cell
	count  int
}

// NewSubchunk creates an empty subchunk. length must be positive.
func NewSubchunk(length int) *Subchunk {
	if length <= 0 {
		panic(fmt.Sprintf("world: subchunk length %d must be positive", length))
	}

	return &Subchunk{
		length: length,
		cells:  make([]Cell, length*length*length),
	}
}

// Length returns the edge length of the cube.
func (s *Subchunk) Length() int { return s.length }

// Bounds returns the extent of the cube in cells.
func (s *Subchunk) Bounds() vec.Vec3 {
	return vec.Vec3{X: s.length, Y: s.length, Z: s.length}
}

// Count returns the number of solid cells.
func (s *Subchunk) Count() int { return s.count }

// InBounds reports whether c addresses a cell of s.
func (s *Subchunk) InBounds(c vec.Vec3) bool {
	return c.InCube(s.length)
}

// index panics on out of range coordinates: callers own the bounds.
func (s *Subchunk) index(c vec.Vec3) int {
	if !s.InBounds(c) {
		panic(fmt.Sprintf("world: cell %v outside subchunk of length %d", c, s.length))
	}
	return (c.X*s.length+c.Y)*s.length + c.Z
}

// Set places b at c, replacing any previous block.
func (s *Subchunk) Set(c vec.Vec3, b Block) {
	cell := &s.cells[s.index(c)]
	if !cell.Solid {
		s.count++
	}
	cell.Solid = true
	cell.Block = b
}

// Clear empties the cell at c.
func (s *Subchunk) Clear(c vec.Vec3) {
	cell := &s.cells[s.index(c)]
	if cell.Solid {
		s.count--
	}
	*cell = Cell{}
}

// At returns the block at c and whether the cell is solid.
func (s *Subchunk) At(c vec.Vec3) (Block, bool) {
	cell := s.cells[s.index(c)]
	return cell.Block, cell.Solid
}

// Solid reports whether the cell at c holds a block.
func (s *Subchunk) Solid(c vec.Vec3) bool {
	return s.cells[s.index(c)].Solid
}

// Each calls fn for every solid cell in x-major, y, z order.
func (s *Subchunk) Each(fn func(c vec.Vec3, b Block)) {
	i := 0
	for x := 0; x < s.length; x++ {
		for y := 0; y < s.length; y++ {
			for z := 0; z < s.length; z++ {
				if cell := s.cells[i]; cell.Solid {
					fn(vec.Vec3{X: x, Y: y, Z: z}, cell.Block)
				}
				i++
			}
		}
	}
}
