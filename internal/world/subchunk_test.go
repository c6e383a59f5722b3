package world

import (
	"testing"

	"github.com/annel0/geo/internal/geo"
	"github.com/annel0/geo/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubchunkSetAndClear(t *testing.T) {
	s := NewSubchunk(4)
	pos := vec.Vec3{X: 1, Y: 2, Z: 3}

	_, ok := s.At(pos)
	assert.False(t, ok, "new subchunk must be empty")
	assert.Equal(t, 0, s.Count())

	s.Set(pos, NewBlock(geo.Vec3{1, 0, 0}))
	b, ok := s.At(pos)
	require.True(t, ok)
	assert.Equal(t, geo.Vec3{1, 0, 0}, b.Color)
	assert.Equal(t, 1, s.Count())

	// replacing keeps the count
	s.Set(pos, NewBlock(geo.Vec3{0, 1, 0}))
	assert.Equal(t, 1, s.Count())

	s.Clear(pos)
	assert.False(t, s.Solid(pos))
	assert.Equal(t, 0, s.Count())

	s.Clear(pos)
	assert.Equal(t, 0, s.Count(), "clearing an empty cell is a no-op")
}

func TestSubchunkOutOfRangePanics(t *testing.T) {
	s := NewSubchunk(2)
	assert.Panics(t, func() { s.Solid(vec.Vec3{X: 2}) })
	assert.Panics(t, func() { s.Set(vec.Vec3{Z: -1}, Block{}) })
	assert.Panics(t, func() { NewSubchunk(0) })
	assert.False(t, s.InBounds(vec.Vec3{Y: 2}))
}

func TestSubchunkEachOrder(t *testing.T) {
	s := NewSubchunk(2)
	all := []vec.Vec3{}
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			for z := 0; z < 2; z++ {
				all = append(all, vec.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	// insert in reverse to prove Each does not follow insertion order
	for i := len(all) - 1; i >= 0; i-- {
		s.Set(all[i], Block{})
	}

	var seen []vec.Vec3
	s.Each(func(c vec.Vec3, _ Block) { seen = append(seen, c) })
	assert.Equal(t, all, seen)
}

func TestChunkLayers(t *testing.T) {
	c := NewChunk(4, 3)
	assert.Equal(t, vec.Vec3{X: 4, Y: 12, Z: 4}, c.Bounds())
	assert.Equal(t, 3, c.Height())

	c.Set(vec.Vec3{X: 1, Y: 9, Z: 2}, Block{})
	assert.True(t, c.Layer(2).Solid(vec.Vec3{X: 1, Y: 1, Z: 2}))
	assert.True(t, c.Solid(vec.Vec3{X: 1, Y: 9, Z: 2}))
	assert.Equal(t, 1, c.Count())
	assert.Equal(t, 0, c.Layer(0).Count())

	assert.Panics(t, func() { c.Solid(vec.Vec3{Y: 12}) })
}
