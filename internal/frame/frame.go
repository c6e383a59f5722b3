package frame

import (
	"fmt"

	"github.com/annel0/geo/internal/geo"
)

// Projection describes the perspective of the viewport. Field of view is in
// degrees.
type Projection struct {
	FOV     float32
	ZoomFOV float32
	Width   int
	Height  int
	Near    float32
	Far     float32

	zoomed bool
}

// DefaultProjection is a 1280x720 viewport with 90 degrees of vertical field
// of view, zooming to 60.
func DefaultProjection() Projection {
	return Projection{
		FOV:     90,
		ZoomFOV: 60,
		Width:   1280,
		Height:  720,
		Near:    0.1,
		Far:     100,
	}
}

// ToggleZoom switches between FOV and ZoomFOV.
func (p *Projection) ToggleZoom() { p.zoomed = !p.zoomed }

// Zoomed reports whether ZoomFOV is active.
func (p *Projection) Zoomed() bool { return p.zoomed }

// ActiveFOV returns the field of view in use, in degrees.
func (p *Projection) ActiveFOV() float32 {
	if p.zoomed {
		return p.ZoomFOV
	}
	return p.FOV
}

func (p *Projection) Matrix() geo.Mat4 {
	return geo.Perspective(geo.Radians(p.ActiveFOV()), float32(p.Width), float32(p.Height), p.Near, p.Far)
}

// Frame holds the matrices of one rendered frame.
type Frame struct {
	Eye        geo.Vec3
	View       geo.Mat4
	Projection geo.Mat4
	PV         geo.Mat4

	// SkyMVP places a cube of side 2*skyScale around the eye; SkyInverse maps
	// clip space back for the sky shader.
	SkyMVP     geo.Mat4
	SkyInverse geo.Mat4
}

// Compute builds the frame matrices for the current camera state.
func Compute(cam *Camera, proj *Projection, skyScale float32) (Frame, error) {
	f := Frame{
		Eye:        cam.Pos,
		View:       cam.View(),
		Projection: proj.Matrix(),
	}
	f.PV = f.Projection.Mul(f.View)

	f.SkyMVP = f.PV.Translate(cam.Pos).Scale(geo.Broadcast3(skyScale))

	inv, err := f.SkyMVP.Inverse()
	if err != nil {
		return Frame{}, fmt.Errorf("sky inverse: %w", err)
	}
	f.SkyInverse = inv

	return f, nil
}
