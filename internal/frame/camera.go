package frame

import (
	"github.com/chewxy/math32"

	"github.com/annel0/geo/internal/geo"
)

// MaxPitch limits how far the camera can look up or down.
var MaxPitch = geo.Radians(85)

// Drag is the fraction of velocity lost per second of integration.
const Drag = 0.99

var worldUp = geo.Vec3{0, 1, 0}

// Input is the movement state of one frame.
type Input struct {
	Forward, Back bool
	Left, Right   bool
	Rise, Sink    bool
	// Mouse delta in pixels since the previous frame.
	DX, DY float32
}

// Camera is a free flying camera. The view looks along -Dir, so Dir points
// from the scene towards the eye.
type Camera struct {
	Pos geo.Vec3
	Vel geo.Vec3
	Dir geo.Vec3

	Yaw, Pitch  float32 // radians
	Sensitivity float32 // radians per pixel
	Speed       float32 // acceleration in units per second squared
}

// NewCamera places a camera at pos looking along yaw and pitch given in
// radians.
func NewCamera(pos geo.Vec3, yaw, pitch, sensitivity, speed float32) *Camera {
	c := &Camera{
		Pos:         pos,
		Yaw:         -yaw,
		Pitch:       -pitch,
		Sensitivity: sensitivity,
		Speed:       speed,
	}
	c.updateDir()
	return c
}

// Forward is Dir flattened onto the horizontal plane.
func (c *Camera) Forward() geo.Vec3 {
	return geo.Vec3{c.Dir[0], 0, c.Dir[2]}.Normalize()
}

func (c *Camera) Up() geo.Vec3 { return worldUp }

func (c *Camera) Right() geo.Vec3 { return c.Forward().Cross(c.Up()) }

// Look turns the camera by a mouse delta. Yaw wraps at a full turn and pitch
// is clamped to MaxPitch.
func (c *Camera) Look(dx, dy float32) {
	c.Yaw = math32.Mod(c.Yaw+dx*c.Sensitivity, geo.TwoPi)
	c.Pitch = geo.Clamp(c.Pitch+dy*c.Sensitivity, -MaxPitch, MaxPitch)
	c.updateDir()
}

// Thrust accelerates along d for dt seconds.
func (c *Camera) Thrust(d geo.Vec3, dt float32) {
	c.Vel = c.Vel.Add(d.Scale(c.Speed * dt))
}

// Steer applies one frame of input and integrates. Moving forward means
// moving towards what the view shows, which is -Forward.
func (c *Camera) Steer(in Input, dt float32) {
	forward, right, up := c.Forward(), c.Right(), c.Up()

	switch {
	case in.Forward:
		c.Thrust(forward.Invert(), dt)
	case in.Back:
		c.Thrust(forward, dt)
	}
	switch {
	case in.Left:
		c.Thrust(right, dt)
	case in.Right:
		c.Thrust(right.Invert(), dt)
	}
	switch {
	case in.Rise:
		c.Thrust(up, dt)
	case in.Sink:
		c.Thrust(up.Invert(), dt)
	}

	c.Look(in.DX, in.DY)
	c.Integrate(dt)
}

// Integrate moves the camera by its velocity and applies drag.
func (c *Camera) Integrate(dt float32) {
	c.Pos = c.Pos.Add(c.Vel.Scale(dt))
	c.Vel = c.Vel.Sub(c.Vel.Scale(dt * Drag))
}

// View returns the view matrix.
func (c *Camera) View() geo.Mat4 {
	return geo.LookAt(c.Pos, c.Pos.Sub(c.Dir), c.Up())
}

func (c *Camera) updateDir() {
	cp := math32.Cos(c.Pitch)
	c.Dir = geo.Vec3{
		cp * math32.Cos(c.Yaw),
		math32.Sin(c.Pitch),
		cp * math32.Sin(c.Yaw),
	}
}
