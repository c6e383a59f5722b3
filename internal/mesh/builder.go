package mesh

import (
	"github.com/annel0/geo/internal/geo"
	"github.com/annel0/geo/internal/vec"
	"github.com/annel0/geo/internal/world"
)

// Volume is an occupancy grid the builder can walk. Both world.Subchunk and
// world.Chunk satisfy it.
type Volume interface {
	Bounds() vec.Vec3
	Solid(c vec.Vec3) bool
	Each(fn func(c vec.Vec3, b world.Block))
}

// Coloring selects where vertex colors come from.
type Coloring int

const (
	// ColorGradient blends the cell coordinate with the corner offset,
	// (xyz + (corner+1)/2) / bounds, so shared corners of neighbors match.
	ColorGradient Coloring = iota
	// ColorBlock uses the block's own color on every corner.
	ColorBlock
)

// Options tune a build.
type Options struct {
	Pitch    float32  // world units between voxel centers, also the cube edge
	Origin   geo.Vec3 // world position of cell (0,0,0)
	Coloring Coloring
	// SkipHidden drops the corner vertices of blocks with no visible face.
	SkipHidden bool
}

// DefaultOptions returns a pitch of 2 at the origin with gradient colors.
func DefaultOptions() Options {
	return Options{Pitch: 2}
}

// blockMesh is the geometry of one block before it joins the global streams.
// Its indices are local, 0..7.
type blockMesh struct {
	vertices [cornersPerBlock]Vertex
	indices  []uint32
	normals  []uint32
}

// Builder turns a volume into a mesh. A Builder may be reused; it keeps its
// per-block scratch between builds.
type Builder struct {
	opts    Options
	scratch blockMesh
}

// NewBuilder creates a builder. A zero Pitch falls back to 2.
func NewBuilder(opts Options) *Builder {
	if opts.Pitch == 0 {
		opts.Pitch = 2
	}
	return &Builder{
		opts: opts,
		scratch: blockMesh{
			indices: make([]uint32, 0, indicesPerFace*len(vec.Directions)),
			normals: make([]uint32, 0, len(vec.Directions)),
		},
	}
}

// Build walks every solid cell of vol in its traversal order and emits the
// faces that are not covered by a solid neighbor.
func (b *Builder) Build(vol Volume) (*Mesh, Stats) {
	var (
		m      Mesh
		stats  Stats
		stride uint32 // vertices emitted by all previous blocks
	)

	bounds := vol.Bounds()
	vol.Each(func(c vec.Vec3, blk world.Block) {
		stats.Blocks++

		bm := &b.scratch
		culled := b.faces(vol, bounds, c, bm)
		stats.Culled += culled
		stats.Faces += len(bm.normals)

		if b.opts.SkipHidden && len(bm.normals) == 0 {
			return
		}

		b.corners(bounds, c, blk, bm)

		m.Vertices = append(m.Vertices, bm.vertices[:]...)
		for _, idx := range bm.indices {
			m.Indices = append(m.Indices, idx+stride)
		}
		m.Normals = append(m.Normals, bm.normals...)
		stride += uint32(cornersPerBlock)
	})

	stats.Vertices = len(m.Vertices)
	return &m, stats
}

// faces fills bm with the local indices and normal-ids of the visible faces
// of cell c and returns how many faces were culled.
func (b *Builder) faces(vol Volume, bounds, c vec.Vec3, bm *blockMesh) int {
	bm.indices = bm.indices[:0]
	bm.normals = bm.normals[:0]

	culled := 0
	for _, d := range vec.Directions {
		if !Visible(vol, bounds, c, d) {
			culled++
			continue
		}
		bm.indices = append(bm.indices, faces[d][:]...)
		bm.normals = append(bm.normals, uint32(d))
	}
	return culled
}

// corners fills the eight vertices of cell c.
func (b *Builder) corners(bounds, c vec.Vec3, blk world.Block, bm *blockMesh) {
	cell := geo.Vec3{float32(c.X), float32(c.Y), float32(c.Z)}
	model := geo.Translation(cell.Scale(b.opts.Pitch).Add(b.opts.Origin)).
		Mul(geo.UniformScaling(b.opts.Pitch / 2))
	inv := geo.Vec3{1 / float32(bounds.X), 1 / float32(bounds.Y), 1 / float32(bounds.Z)}

	for i, corner := range corners {
		v := &bm.vertices[i]
		v.Pos = model.Apply(corner.Vec4(1))

		switch b.opts.Coloring {
		case ColorBlock:
			v.Col = blk.Color
		default:
			v.Col = cell.Add(corner.Add(geo.Broadcast3(1)).Scale(0.5)).Mul(inv)
		}
	}
}

// Visible reports whether the face of cell c towards d is exposed: the
// neighbor is outside the grid or empty. Bounds are inclusive on both ends,
// so cells on any border face outwards.
func Visible(vol Volume, bounds, c vec.Vec3, d vec.Direction) bool {
	n := c.Neighbor(d)
	if n.X < 0 || n.X >= bounds.X || n.Y < 0 || n.Y >= bounds.Y || n.Z < 0 || n.Z >= bounds.Z {
		return true
	}
	return !vol.Solid(n)
}

// BuildSubchunk meshes a single subchunk.
func BuildSubchunk(s *world.Subchunk, opts Options) (*Mesh, Stats) {
	return NewBuilder(opts).Build(s)
}

// BuildChunk meshes a whole chunk as one volume, so faces between stacked
// subchunks are culled like any other shared face.
func BuildChunk(c *world.Chunk, opts Options) (*Mesh, Stats) {
	return NewBuilder(opts).Build(c)
}
