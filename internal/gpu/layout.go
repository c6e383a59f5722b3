package gpu

import (
	"errors"
	"fmt"
	"sort"
)

// ScalarType is the component type of a vertex attribute.
type ScalarType uint8

const (
	Float32 ScalarType = iota
	Uint32
	Uint8
)

// Size returns the byte size of one component.
func (t ScalarType) Size() int {
	switch t {
	case Float32, Uint32:
		return 4
	case Uint8:
		return 1
	default:
		return 0
	}
}

func (t ScalarType) String() string {
	switch t {
	case Float32:
		return "float32"
	case Uint32:
		return "uint32"
	case Uint8:
		return "uint8"
	default:
		return fmt.Sprintf("ScalarType(%d)", uint8(t))
	}
}

// Attribute describes one vertex attribute inside an interleaved buffer.
type Attribute struct {
	Name       string
	Slot       uint32
	Components int
	Type       ScalarType
	Offset     int // bytes from the start of the vertex
}

// Size returns the byte size of the attribute.
func (a Attribute) Size() int { return a.Components * a.Type.Size() }

// Layout is an ordered list of attributes sharing one stride. It is passed
// explicitly to BufferBackend.Configure; slots are never assigned implicitly.
type Layout struct {
	Attributes []Attribute
	Stride     int
}

var (
	ErrDuplicateSlot = errors.New("gpu: duplicate attribute slot")
	ErrBadAttribute  = errors.New("gpu: invalid attribute")
)

// NewLayout packs attrs back to back in the given order, assigning offsets
// and the stride. Slots are taken from attrs as given.
func NewLayout(attrs ...Attribute) (Layout, error) {
	l := Layout{Attributes: make([]Attribute, len(attrs))}
	for i, a := range attrs {
		a.Offset = l.Stride
		l.Attributes[i] = a
		l.Stride += a.Size()
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks that slots are unique and that attributes fit inside the
// stride without overlapping.
func (l Layout) Validate() error {
	seen := make(map[uint32]string, len(l.Attributes))
	for _, a := range l.Attributes {
		if a.Components < 1 || a.Components > 4 || a.Type.Size() == 0 {
			return fmt.Errorf("%w: %q has %d x %s", ErrBadAttribute, a.Name, a.Components, a.Type)
		}
		if a.Offset < 0 || a.Offset+a.Size() > l.Stride {
			return fmt.Errorf("%w: %q at offset %d exceeds stride %d", ErrBadAttribute, a.Name, a.Offset, l.Stride)
		}
		if other, ok := seen[a.Slot]; ok {
			return fmt.Errorf("%w: %d used by %q and %q", ErrDuplicateSlot, a.Slot, other, a.Name)
		}
		seen[a.Slot] = a.Name
	}

	sorted := append([]Attribute(nil), l.Attributes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		if prev.Offset+prev.Size() > sorted[i].Offset {
			return fmt.Errorf("%w: %q overlaps %q", ErrBadAttribute, prev.Name, sorted[i].Name)
		}
	}
	return nil
}

// VertexLayout describes mesh.Vertex: position as 4 floats in slot 0 and
// color as 3 floats in slot 1, 28 bytes per vertex.
func VertexLayout() Layout {
	l, err := NewLayout(
		Attribute{Name: "pos", Slot: 0, Components: 4, Type: Float32},
		Attribute{Name: "col", Slot: 1, Components: 3, Type: Float32},
	)
	if err != nil {
		panic(err)
	}
	return l
}
