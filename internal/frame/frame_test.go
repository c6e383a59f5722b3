package frame

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/geo/internal/geo"
	"github.com/annel0/geo/internal/mesh"
	"github.com/annel0/geo/internal/world"
)

func sphereMesh(t *testing.T, length int) *mesh.Mesh {
	t.Helper()
	s := world.NewPredicateGenerator(world.Sphere()).Subchunk(length)
	m, _ := mesh.BuildSubchunk(s, mesh.DefaultOptions())
	require.NotEmpty(t, m.Vertices)
	return m
}

func defaultCamera() *Camera {
	return NewCamera(geo.Vec3{0, 2, 6}, geo.Radians(-90), geo.Radians(-10), 0.002, 5)
}

func mglEqual(t *testing.T, want mgl32.Mat4, got geo.Mat4) {
	t.Helper()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, want.At(i, j), got[i][j], 1e-4, "entry %d,%d", i, j)
		}
	}
}

func TestTransformLeavesInputUntouched(t *testing.T) {
	m := sphereMesh(t, 4)
	before := append([]mesh.Vertex(nil), m.Vertices...)

	pv := geo.Translation(geo.Vec3{1, 2, 3})
	out := Transform(m.Vertices, pv)

	assert.Equal(t, before, m.Vertices)
	require.Len(t, out, len(m.Vertices))
	for i, v := range out {
		assert.Equal(t, pv.Apply(m.Vertices[i].Pos), v.Pos)
		assert.Equal(t, m.Vertices[i].Col, v.Col)
	}

	// Same inputs, same outputs.
	assert.Equal(t, out, Transform(m.Vertices, pv))
}

func TestTransformIntoReusesBuffer(t *testing.T) {
	m := sphereMesh(t, 4)
	buf := make([]mesh.Vertex, 0, len(m.Vertices)+10)

	out := TransformInto(buf, m.Vertices, geo.Ident4())
	assert.Len(t, out, len(m.Vertices))
	assert.Same(t, &buf[:1][0], &out[0])
	assert.Equal(t, m.Vertices, out)

	small := TransformInto(make([]mesh.Vertex, 1), m.Vertices, geo.Ident4())
	assert.Len(t, small, len(m.Vertices))
}

func TestTransformerMatchesSequential(t *testing.T) {
	m := sphereMesh(t, 8)
	f, err := Compute(defaultCamera(), &Projection{FOV: 90, ZoomFOV: 60, Width: 16, Height: 9, Near: 0.1, Far: 100}, 10)
	require.NoError(t, err)

	want := Transform(m.Vertices, f.PV)

	for _, batch := range []int{1, 7, 64, len(m.Vertices), len(m.Vertices) * 2} {
		tr := NewTransformer(4, batch)
		got := tr.Transform(nil, m.Vertices, f.PV)
		tr.Close()

		assert.Equal(t, want, got, "batch %d", batch)
	}
}

func TestTransformerDefaults(t *testing.T) {
	tr := NewTransformer(0, 0)
	defer tr.Close()

	assert.Equal(t, DefaultBatch, tr.Batch())
	assert.Empty(t, tr.Transform(nil, nil, geo.Ident4()))
}

func TestCameraLookClampsPitch(t *testing.T) {
	c := defaultCamera()

	c.Look(0, 1e6)
	assert.Equal(t, MaxPitch, c.Pitch)

	c.Look(0, -1e7)
	assert.Equal(t, -MaxPitch, c.Pitch)
}

func TestCameraLookWrapsYaw(t *testing.T) {
	c := defaultCamera()
	for i := 0; i < 100; i++ {
		c.Look(1000, 0)
		assert.Less(t, c.Yaw, geo.TwoPi)
		assert.Greater(t, c.Yaw, -geo.TwoPi)
	}
	assert.InDelta(t, 1, c.Dir.Magnitude(), 1e-5)
}

func TestCameraBasis(t *testing.T) {
	c := defaultCamera()

	fwd := c.Forward()
	assert.Zero(t, fwd[1])
	assert.InDelta(t, 1, fwd.Magnitude(), 1e-5)
	assert.InDelta(t, 0, fwd.Dot(c.Right()), 1e-5)
	assert.InDelta(t, 0, c.Up().Dot(c.Right()), 1e-5)

	// Yaw of -90 degrees faces -z, so Dir points back along +z.
	assert.InDelta(t, 1, fwd[2], 1e-5)
}

func TestCameraIntegrate(t *testing.T) {
	c := defaultCamera()
	c.Vel = geo.Vec3{2, 0, 0}

	c.Integrate(0.5)
	assert.Equal(t, geo.Vec3{1, 2, 6}, c.Pos)
	assert.InDelta(t, 2*(1-0.5*Drag), c.Vel[0], 1e-6)
}

func TestCameraSteerForwardApproachesScene(t *testing.T) {
	c := defaultCamera()
	for i := 0; i < 10; i++ {
		c.Steer(Input{Forward: true}, 0.1)
	}
	assert.Less(t, c.Pos[2], float32(6))
	assert.InDelta(t, 2, c.Pos[1], 1e-5)

	c = defaultCamera()
	c.Steer(Input{Rise: true, Left: true}, 0.1)
	assert.Greater(t, c.Pos[1], float32(2))
}

func TestCameraViewMatchesLookAt(t *testing.T) {
	c := defaultCamera()
	c.Look(35, -12)

	eye := mgl32.Vec3(c.Pos)
	center := mgl32.Vec3(c.Pos.Sub(c.Dir))
	mglEqual(t, mgl32.LookAtV(eye, center, mgl32.Vec3{0, 1, 0}), c.View())
}

func TestProjectionZoom(t *testing.T) {
	p := DefaultProjection()
	assert.Equal(t, float32(90), p.ActiveFOV())

	p.ToggleZoom()
	assert.True(t, p.Zoomed())
	assert.Equal(t, float32(60), p.ActiveFOV())
	mglEqual(t, mgl32.Perspective(mgl32.DegToRad(60), 1280.0/720.0, 0.1, 100), p.Matrix())

	p.ToggleZoom()
	assert.Equal(t, float32(90), p.ActiveFOV())
}

func TestComputeFrame(t *testing.T) {
	c := defaultCamera()
	p := DefaultProjection()

	f, err := Compute(c, &p, 10)
	require.NoError(t, err)

	assert.Equal(t, c.Pos, f.Eye)
	assert.True(t, f.PV.ApproxEqual(f.Projection.Mul(f.View), geo.Epsilon))
	assert.True(t, f.SkyInverse.Mul(f.SkyMVP).ApproxEqual(geo.Ident4(), 1e-3))

	// The sky cube is centered on the eye and scaled by skyScale.
	sky := f.PV.Mul(geo.Translation(c.Pos)).Mul(geo.UniformScaling(10))
	assert.True(t, f.SkyMVP.ApproxEqual(sky, 1e-3))
	eye := c.Pos.Vec4(1)
	assert.True(t, f.SkyMVP.Apply(geo.Vec4{0, 0, 0, 1}).ApproxEqual(f.PV.Apply(eye), 1e-3))

	// The origin sits in front of the default camera, inside the frustum.
	clip := f.PV.Apply(geo.Vec4{0, 0, 0, 1})
	require.Greater(t, clip.W(), float32(0))
	assert.Less(t, clip.X()/clip.W(), float32(1))
	assert.Greater(t, clip.X()/clip.W(), float32(-1))
	assert.Less(t, clip.Y()/clip.W(), float32(1))
	assert.Greater(t, clip.Y()/clip.W(), float32(-1))
}
