package vec

// Direction is one of the six axis aligned face directions. Its numeric value
// is the normal-id written to the per-face normal stream.
type Direction uint8

const (
	PosX Direction = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ
)

// Directions lists all six directions in normal-id order.
var Directions = [6]Direction{PosX, NegX, PosY, NegY, PosZ, NegZ}

var offsets = [6]Vec3{
	PosX: {X: 1},
	NegX: {X: -1},
	PosY: {Y: 1},
	NegY: {Y: -1},
	PosZ: {Z: 1},
	NegZ: {Z: -1},
}

// Offset returns the unit step towards d.
func (d Direction) Offset() Vec3 {
	return offsets[d]
}

// Opposite returns the direction facing the other way.
func (d Direction) Opposite() Direction {
	return d ^ 1
}

func (d Direction) String() string {
	switch d {
	case PosX:
		return "+x"
	case NegX:
		return "-x"
	case PosY:
		return "+y"
	case NegY:
		return "-y"
	case PosZ:
		return "+z"
	case NegZ:
		return "-z"
	default:
		return "unknown"
	}
}
