package mesh

import (
	"fmt"

	"github.com/annel0/geo/internal/geo"
)

// Vertex is a homogeneous position and a color.
type Vertex struct {
	Pos geo.Vec4
	Col geo.Vec3
}

// Mesh holds the three streams handed to the renderer. Indices form a
// triangle list into Vertices; Normals has one normal-id per face, so face f
// owns Indices[6f:6f+6].
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Normals  []uint32
}

// Faces returns the number of emitted faces.
func (m *Mesh) Faces() int { return len(m.Normals) }

// Empty reports whether nothing was emitted.
func (m *Mesh) Empty() bool { return len(m.Indices) == 0 }

// Validate checks the stream invariants: whole faces only, one normal-id per
// face and every index inside the vertex stream.
func (m *Mesh) Validate() error {
	if len(m.Indices)%indicesPerFace != 0 {
		return fmt.Errorf("index count %d is not a multiple of %d", len(m.Indices), indicesPerFace)
	}
	if want := len(m.Indices) / indicesPerFace; len(m.Normals) != want {
		return fmt.Errorf("normal count %d, want %d", len(m.Normals), want)
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("index %d at %d out of range of %d vertices", idx, i, len(m.Vertices))
		}
	}
	for i, n := range m.Normals {
		if n >= 6 {
			return fmt.Errorf("normal-id %d at %d is not a face direction", n, i)
		}
	}
	return nil
}

// Stats summarizes a build.
type Stats struct {
	Blocks   int // solid cells visited
	Faces    int // faces emitted
	Culled   int // faces dropped against a solid neighbor
	Vertices int // vertices emitted
}

func (s Stats) String() string {
	return fmt.Sprintf("blocks=%d faces=%d culled=%d vertices=%d", s.Blocks, s.Faces, s.Culled, s.Vertices)
}
