package world

import (
	"fmt"

	"github.com/annel0/geo/internal/geo"
	"github.com/annel0/geo/internal/util"
	"github.com/annel0/geo/internal/vec"
)

// Predicate decides whether the cell c of a grid with extent bounds is solid.
type Predicate func(c, bounds vec.Vec3) bool

// Painter picks the color of a solid cell.
type Painter func(c, bounds vec.Vec3) geo.Vec3

// Height bands of the terrain palette, as fractions of the grid height.
const (
	DeepWaterMax    = 0.20
	ShallowWaterMax = 0.30
	ActiveStart     = 0.60
	MountainStart   = 0.80
)

var (
	colorDeepWater = geo.Vec3{0.05, 0.15, 0.45}
	colorWater     = geo.Vec3{0.15, 0.35, 0.70}
	colorDirt      = geo.Vec3{0.45, 0.32, 0.18}
	colorGrass     = geo.Vec3{0.25, 0.60, 0.20}
	colorStone     = geo.Vec3{0.50, 0.50, 0.52}
)

// Sphere carves the largest ball centered in the grid. A cell is solid when
// the distance from its center to the grid center is below half the
// smallest extent.
func Sphere() Predicate {
	return func(c, bounds vec.Vec3) bool {
		center := geo.Vec3{
			float32(bounds.X-1) / 2,
			float32(bounds.Y-1) / 2,
			float32(bounds.Z-1) / 2,
		}
		radius := float32(min(bounds.X, bounds.Y, bounds.Z)) / 2
		return cellVec(c).Distance(center) < radius
	}
}

// Solid fills every cell.
func Solid() Predicate {
	return func(vec.Vec3, vec.Vec3) bool { return true }
}

// Single fills only the cell at p.
func Single(p vec.Vec3) Predicate {
	return func(c, _ vec.Vec3) bool { return c.Equals(p) }
}

// Terrain fills every column up to a Perlin height field.
func Terrain(noise *util.Noise, scale float64) Predicate {
	return func(c, bounds vec.Vec3) bool {
		h := noise.Noise2D(float64(c.X)*scale, float64(c.Z)*scale)
		return float64(c.Y) < h*float64(bounds.Y)
	}
}

// Carve empties cells of base where 3D noise exceeds threshold.
func Carve(base Predicate, noise *util.Noise, scale, threshold float64) Predicate {
	return func(c, bounds vec.Vec3) bool {
		if !base(c, bounds) {
			return false
		}
		n := noise.Noise3D(float64(c.X)*scale, float64(c.Y)*scale, float64(c.Z)*scale)
		return n <= threshold
	}
}

// Gradient colors a cell by its normalized coordinate.
func Gradient() Painter {
	return func(c, bounds vec.Vec3) geo.Vec3 {
		return cellVec(c).Mul(geo.Vec3{
			1 / float32(bounds.X),
			1 / float32(bounds.Y),
			1 / float32(bounds.Z),
		})
	}
}

// Banded colors a cell by the height band it falls in.
func Banded() Painter {
	return func(c, bounds vec.Vec3) geo.Vec3 {
		h := float64(c.Y) / float64(bounds.Y)
		switch {
		case h < DeepWaterMax:
			return colorDeepWater
		case h < ShallowWaterMax:
			return colorWater
		case h < ActiveStart:
			return colorDirt
		case h < MountainStart:
			return colorGrass
		default:
			return colorStone
		}
	}
}

func cellVec(c vec.Vec3) geo.Vec3 {
	return geo.Vec3{float32(c.X), float32(c.Y), float32(c.Z)}
}

// GeneratorKind selects the predicate of a Generator.
type GeneratorKind string

const (
	KindSphere  GeneratorKind = "sphere"
	KindSolid   GeneratorKind = "solid"
	KindTerrain GeneratorKind = "terrain"
)

// Generator fills volumes from a predicate and a painter.
type Generator struct {
	Kind          GeneratorKind
	Seed          int64   // terrain noise seed
	NoiseScale    float64 // terrain smoothness
	CaveScale     float64 // cave noise frequency, 0 disables caves
	CaveThreshold float64 // noise above this is carved out

	predicate Predicate
	painter   Painter
}

// NewGenerator builds a generator of the given kind.
func NewGenerator(kind GeneratorKind, seed int64) (*Generator, error) {
	g := &Generator{
		Kind:          kind,
		Seed:          seed,
		NoiseScale:    0.05,
		CaveScale:     0.15,
		CaveThreshold: 0.62,
	}

	switch kind {
	case KindSphere:
		g.predicate, g.painter = Sphere(), Gradient()
	case KindSolid:
		g.predicate, g.painter = Solid(), Gradient()
	case KindTerrain:
		g.painter = Banded()
	default:
		return nil, fmt.Errorf("unknown generator kind %q", kind)
	}

	return g, nil
}

// NewPredicateGenerator wraps an arbitrary predicate with the gradient painter.
func NewPredicateGenerator(pred Predicate) *Generator {
	return &Generator{predicate: pred, painter: Gradient()}
}

// Predicate returns the predicate the generator evaluates. Terrain
// predicates are built lazily so NoiseScale and the cave settings can be
// tuned after NewGenerator.
func (g *Generator) Predicate() Predicate {
	if g.predicate != nil {
		return g.predicate
	}

	pred := Terrain(util.NewNoise(g.Seed), g.NoiseScale)
	if g.CaveScale > 0 {
		pred = Carve(pred, util.NewNoise(g.Seed+42), g.CaveScale, g.CaveThreshold)
	}
	g.predicate = pred
	return pred
}

// Subchunk evaluates the predicate over a length^3 cube.
func (g *Generator) Subchunk(length int) *Subchunk {
	s := NewSubchunk(length)
	g.fill(s.Bounds(), s.Set)
	return s
}

// Chunk evaluates the predicate over a whole chunk, using chunk coordinates
// so features continue across layers.
func (g *Generator) Chunk(length, height int) *Chunk {
	c := NewChunk(length, height)
	g.fill(c.Bounds(), c.Set)
	return c
}

func (g *Generator) fill(bounds vec.Vec3, set func(vec.Vec3, Block)) {
	pred := g.Predicate()
	for x := 0; x < bounds.X; x++ {
		for y := 0; y < bounds.Y; y++ {
			for z := 0; z < bounds.Z; z++ {
				c := vec.Vec3{X: x, Y: y, Z: z}
				if pred(c, bounds) {
					set(c, NewBlock(g.painter(c, bounds)))
				}
			}
		}
	}
}
