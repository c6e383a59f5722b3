package geo

import "github.com/chewxy/math32"

const (
	DEG2RAD = math32.Pi / 180
	RAD2DEG = 180 / math32.Pi
	Pi      = math32.Pi
	TwoPi   = 2 * math32.Pi
)

// Epsilon is the default tolerance of ApproxEqual comparisons in this module.
const Epsilon float32 = 1e-5

// Radians converts degrees to radians.
func Radians(deg float32) float32 { return deg * DEG2RAD }

/*
	NearlyEqual compares two float32 with an error margin
	http://floating-point-gui.de/errors/comparison/
*/
func NearlyEqual(a, b, epsilon float32) bool {
	// shortcut, handles infinities
	if a == b {
		return true
	}

	diff := math32.Abs(a - b)

	// a or b or both are zero, or both tiny
	if a == 0 || b == 0 || diff < epsilon {
		return diff < epsilon
	}

	// use relative error
	return diff/(math32.Abs(a)+math32.Abs(b)) < epsilon
}

// Clamp limits v to [min, max].
func Clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
