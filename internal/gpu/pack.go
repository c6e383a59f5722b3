package gpu

import (
	"encoding/binary"
	"math"

	"github.com/annel0/geo/internal/mesh"
)

// VertexStride is the packed size of mesh.Vertex.
const VertexStride = 7 * 4

// PackVertices interleaves position and color as little-endian float32,
// VertexStride bytes per vertex, matching VertexLayout.
func PackVertices(vs []mesh.Vertex) []byte {
	buf := make([]byte, 0, len(vs)*VertexStride)
	for _, v := range vs {
		for _, f := range v.Pos {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
		for _, f := range v.Col {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}
	return buf
}

// UnpackVertices reverses PackVertices. A trailing partial vertex is ignored.
func UnpackVertices(buf []byte) []mesh.Vertex {
	n := len(buf) / VertexStride
	vs := make([]mesh.Vertex, n)
	for i := range vs {
		off := i * VertexStride
		for j := range vs[i].Pos {
			vs[i].Pos[j] = readFloat(buf, off+j*4)
		}
		off += 16
		for j := range vs[i].Col {
			vs[i].Col[j] = readFloat(buf, off+j*4)
		}
	}
	return vs
}

func readFloat(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

// PackIndices writes the triangle list as little-endian uint32.
func PackIndices(idx []uint32) []byte { return packUint32(idx) }

// PackNormals writes one little-endian uint32 normal-id per face, the
// element type of the per-face storage buffer.
func PackNormals(normals []uint32) []byte { return packUint32(normals) }

// PackNormalBytes writes one byte per face for backends that read the
// normal-ids as uint8.
func PackNormalBytes(normals []uint32) []byte {
	buf := make([]byte, len(normals))
	for i, n := range normals {
		buf[i] = byte(n)
	}
	return buf
}

func packUint32(vs []uint32) []byte {
	buf := make([]byte, 0, len(vs)*4)
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return buf
}

// UnpackUint32 reverses PackIndices and PackNormals.
func UnpackUint32(buf []byte) []uint32 {
	out := make([]uint32, len(buf)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return out
}
