package util

import (
	"github.com/aquilax/go-perlin"
)

const (
	noiseAlpha   = 2.0 // smoothing
	noiseBeta    = 2.0 // frequency
	noiseOctaves = int32(3)
)

// Noise is a seeded Perlin generator. Each instance owns its state, so two
// generators with different seeds can be used side by side.
type Noise struct {
	seed   int64
	perlin *perlin.Perlin
}

// NewNoise creates a generator for seed.
func NewNoise(seed int64) *Noise {
	return &Noise{
		seed:   seed,
		perlin: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
	}
}

// Seed returns the seed the generator was built with.
func (n *Noise) Seed() int64 { return n.seed }

// Noise2D returns Perlin noise at (x, y) remapped to [0, 1].
func (n *Noise) Noise2D(x, y float64) float64 {
	return (n.perlin.Noise2D(x, y) + 1.0) / 2.0
}

// Noise3D returns Perlin noise at (x, y, z) remapped to [0, 1].
func (n *Noise) Noise3D(x, y, z float64) float64 {
	return (n.perlin.Noise3D(x, y, z) + 1.0) / 2.0
}
