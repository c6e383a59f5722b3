package gpu

import (
	"fmt"

	"github.com/annel0/geo/internal/geo"
	"github.com/annel0/geo/internal/mesh"
)

// Key identifies a keyboard key polled from a Window.
type Key int

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyLeftShift
	KeyEscape
)

// Button identifies a mouse button.
type Button int

const (
	MouseLeft Button = iota
	MouseRight
	MouseMiddle
)

// Window is the platform window and input provider.
type Window interface {
	ShouldClose() bool
	KeyPressed(k Key) bool
	ButtonPressed(b Button) bool
	Cursor() (x, y float64)
	// Time returns seconds since the window was created.
	Time() float64
	SwapBuffers()
}

// Stage is a shader stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	if s == VertexStage {
		return "vertex"
	}
	return "fragment"
}

// Shader is a compiled shader stage.
type Shader uint32

// Program is a linked shader program.
type Program interface {
	Use()
	// SetMat4 uploads a matrix uniform. m is column first, as returned by
	// geo.Mat4.Float32.
	SetMat4(name string, m [16]float32) error
}

// ShaderBackend compiles and links programs.
type ShaderBackend interface {
	Compile(stage Stage, source string) (Shader, error)
	Link(shaders ...Shader) (Program, error)
}

// BufferKind is the binding target of a buffer.
type BufferKind int

const (
	VertexBuffer BufferKind = iota
	IndexBuffer
	StorageBuffer
)

func (k BufferKind) String() string {
	switch k {
	case VertexBuffer:
		return "vertex"
	case IndexBuffer:
		return "index"
	case StorageBuffer:
		return "storage"
	default:
		return fmt.Sprintf("BufferKind(%d)", int(k))
	}
}

// Usage is the update frequency hint of a buffer.
type Usage int

const (
	StaticDraw Usage = iota
	DynamicDraw
	StreamDraw
)

// Buffer is a handle returned by BufferBackend.Upload.
type Buffer struct {
	ID   uint32
	Kind BufferKind
	Size int
}

// BufferBackend owns GPU buffers.
type BufferBackend interface {
	Upload(kind BufferKind, data []byte, usage Usage) (Buffer, error)
	Update(buf Buffer, data []byte) error
	Bind(buf Buffer)
	// Configure sets the attribute pointers of a vertex buffer.
	Configure(buf Buffer, layout Layout) error
}

// MeshBuffers are the three uploaded streams of a mesh.
type MeshBuffers struct {
	Vertices Buffer
	Indices  Buffer
	Normals  Buffer
	Layout   Layout
	Count    int // indices to draw
}

// UploadMesh uploads the vertex, index and normal-id streams and configures
// the vertex layout. Vertices use DynamicDraw since they are rewritten every
// frame.
func UploadMesh(b BufferBackend, m *mesh.Mesh) (MeshBuffers, error) {
	mb := MeshBuffers{Layout: VertexLayout(), Count: len(m.Indices)}

	var err error
	if mb.Vertices, err = b.Upload(VertexBuffer, PackVertices(m.Vertices), DynamicDraw); err != nil {
		return MeshBuffers{}, fmt.Errorf("upload vertices: %w", err)
	}
	if err = b.Configure(mb.Vertices, mb.Layout); err != nil {
		return MeshBuffers{}, fmt.Errorf("configure vertices: %w", err)
	}
	if mb.Indices, err = b.Upload(IndexBuffer, PackIndices(m.Indices), StaticDraw); err != nil {
		return MeshBuffers{}, fmt.Errorf("upload indices: %w", err)
	}
	if mb.Normals, err = b.Upload(StorageBuffer, PackNormals(m.Normals), StaticDraw); err != nil {
		return MeshBuffers{}, fmt.Errorf("upload normals: %w", err)
	}
	return mb, nil
}

// SetMatrix uploads m to the named uniform of p.
func SetMatrix(p Program, name string, m geo.Mat4) error {
	return p.SetMat4(name, m.Float32())
}
