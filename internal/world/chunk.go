package world

import (
	"fmt"

	"github.com/annel0/geo/internal/vec"
)

// Chunk stacks Height subchunks of the same length along +y. Layer i covers
// chunk coordinates y in [i*Length, (i+1)*Length).
type Chunk struct {
	length int
	layers []Subchunk
}

// NewChunk creates an empty chunk of height layers.
func NewChunk(length, height int) *Chunk {
	if height <= 0 {
		panic(fmt.Sprintf("world: chunk height %d must be positive", height))
	}

	c := &Chunk{
		length: length,
		layers: make([]Subchunk, height),
	}
	for i := range c.layers {
		c.layers[i] = *NewSubchunk(length)
	}
	return c
}

func (c *Chunk) Length() int { return c.length }

func (c *Chunk) Height() int { return len(c.layers) }

// Layer returns subchunk i, bottom first.
func (c *Chunk) Layer(i int) *Subchunk { return &c.layers[i] }

// Bounds returns the extent of the chunk in cells.
func (c *Chunk) Bounds() vec.Vec3 {
	return vec.Vec3{X: c.length, Y: c.length * len(c.layers), Z: c.length}
}

// Count returns the number of solid cells over all layers.
func (c *Chunk) Count() int {
	n := 0
	for i := range c.layers {
		n += c.layers[i].count
	}
	return n
}

// InBounds reports whether the chunk coordinate p addresses a cell.
func (c *Chunk) InBounds(p vec.Vec3) bool {
	b := c.Bounds()
	return p.X >= 0 && p.X < b.X && p.Y >= 0 && p.Y < b.Y && p.Z >= 0 && p.Z < b.Z
}

// locate splits a chunk coordinate into its layer and the local coordinate.
func (c *Chunk) locate(p vec.Vec3) (*Subchunk, vec.Vec3) {
	if !c.InBounds(p) {
		panic(fmt.Sprintf("world: cell %v outside chunk %v", p, c.Bounds()))
	}
	return &c.layers[p.Y/c.length], vec.Vec3{X: p.X, Y: p.Y % c.length, Z: p.Z}
}

func (c *Chunk) Set(p vec.Vec3, b Block) {
	s, local := c.locate(p)
	s.Set(local, b)
}

func (c *Chunk) At(p vec.Vec3) (Block, bool) {
	s, local := c.locate(p)
	return s.At(local)
}

func (c *Chunk) Solid(p vec.Vec3) bool {
	s, local := c.locate(p)
	return s.Solid(local)
}

// Each calls fn for every solid cell, layer by layer from the bottom, each
// layer in x-major, y, z order. Coordinates are chunk coordinates.
func (c *Chunk) Each(fn func(p vec.Vec3, b Block)) {
	for i := range c.layers {
		base := i * c.length
		c.layers[i].Each(func(local vec.Vec3, b Block) {
			fn(vec.Vec3{X: local.X, Y: local.Y + base, Z: local.Z}, b)
		})
	}
}
