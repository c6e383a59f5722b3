package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/annel0/geo/internal/frame"
	"github.com/annel0/geo/internal/geo"
	"github.com/annel0/geo/internal/gpu"
	"github.com/annel0/geo/internal/mesh"
	"github.com/annel0/geo/internal/observability"
)

// Shaders are the sources of the two programs the loop binds.
type Shaders struct {
	WorldVertex   string
	WorldFragment string
	SkyVertex     string
	SkyFragment   string
}

// DefaultShaders pass positions and colors through. Face normals come from
// the normal-id storage buffer, indexed by gl_PrimitiveID.
func DefaultShaders() Shaders {
	return Shaders{
		WorldVertex: `#version 460
layout(location = 0) in vec4 pos;
layout(location = 1) in vec3 col;
out vec3 v_col;
void main() { gl_Position = pos; v_col = col; }`,
		WorldFragment: `#version 460
layout(std430, binding = 0) readonly buffer Normals { uint normal_ids[]; };
in vec3 v_col;
out vec4 frag;
void main() { frag = vec4(v_col, 1.0); }`,
		SkyVertex: `#version 460
layout(location = 0) in vec4 pos;
uniform mat4 sky_imvp;
out vec3 v_dir;
void main() { gl_Position = pos; v_dir = (sky_imvp * pos).xyz; }`,
		SkyFragment: `#version 460
in vec3 v_dir;
out vec4 frag;
void main() { frag = vec4(normalize(v_dir) * 0.5 + 0.5, 1.0); }`,
	}
}

// Backend bundles the platform collaborators of the loop.
type Backend struct {
	Window  gpu.Window
	Shaders gpu.ShaderBackend
	Buffers gpu.BufferBackend
}

// Result summarizes a run.
type Result struct {
	RunID     string
	Build     BuildResult
	Frames    int
	Last      frame.Frame
	Camera    frame.Camera
	Zoomed    bool
	Vertices  []mesh.Vertex // clip space positions of the last frame
	Transform time.Duration // total time spent transforming
}

// controls turns polled window input into camera input. Mouse deltas only
// count while the right button holds the cursor; the middle button toggles
// zoom on release.
type controls struct {
	lastX, lastY float64
	zoomHeld     bool
}

func (c *controls) poll(w gpu.Window, proj *frame.Projection) frame.Input {
	in := frame.Input{
		Forward: w.KeyPressed(gpu.KeyW),
		Back:    w.KeyPressed(gpu.KeyS),
		Left:    w.KeyPressed(gpu.KeyA),
		Right:   w.KeyPressed(gpu.KeyD),
		Rise:    w.KeyPressed(gpu.KeySpace),
		Sink:    w.KeyPressed(gpu.KeyLeftShift),
	}

	x, y := w.Cursor()
	if w.ButtonPressed(gpu.MouseRight) {
		in.DX = float32(x - c.lastX)
		in.DY = float32(y - c.lastY)
	}
	c.lastX, c.lastY = x, y

	middle := w.ButtonPressed(gpu.MouseMiddle)
	if c.zoomHeld && !middle {
		proj.ToggleZoom()
	}
	c.zoomHeld = middle

	return in
}

func (p *Pipeline) camera() *frame.Camera {
	cc := p.cfg.Camera
	return frame.NewCamera(cc.Position, geo.Radians(cc.Yaw), geo.Radians(cc.Pitch), cc.Sensitivity, cc.Speed)
}

func (p *Pipeline) projection() *frame.Projection {
	pc := p.cfg.Projection
	return &frame.Projection{
		FOV:     pc.FOV,
		ZoomFOV: pc.ZoomFOV,
		Width:   pc.Width,
		Height:  pc.Height,
		Near:    pc.Near,
		Far:     pc.Far,
	}
}

// Run builds the mesh, uploads it and runs frames until the window closes or
// ctx is done. Each frame steers the camera, transforms the world vertices to
// clip space and updates the vertex buffer.
func (p *Pipeline) Run(ctx context.Context, b Backend, shaders Shaders) (Result, error) {
	ctx, span := observability.Start(ctx, "pipeline.run")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", p.runID))

	res := Result{RunID: p.runID}

	build, err := p.Build(ctx)
	if err != nil {
		return res, err
	}
	res.Build = build

	worldProg, err := link(b.Shaders, shaders.WorldVertex, shaders.WorldFragment)
	if err != nil {
		return res, fmt.Errorf("world program: %w", err)
	}
	skyProg, err := link(b.Shaders, shaders.SkyVertex, shaders.SkyFragment)
	if err != nil {
		return res, fmt.Errorf("sky program: %w", err)
	}

	bufs, err := gpu.UploadMesh(b.Buffers, build.Mesh)
	if err != nil {
		return res, err
	}

	tr := frame.NewTransformer(p.cfg.Render.Workers, p.cfg.Render.Batch)
	defer tr.Close()

	cam := p.camera()
	proj := p.projection()
	var (
		ctl      controls
		clip     []mesh.Vertex
		lastTime = b.Window.Time()
	)
	ctl.lastX, ctl.lastY = b.Window.Cursor()

	for !b.Window.ShouldClose() {
		if err := ctx.Err(); err != nil {
			p.log.Info("run %s: stopped after %d frames: %v", p.runID, res.Frames, err)
			break
		}

		now := b.Window.Time()
		dt := float32(now - lastTime)
		lastTime = now

		cam.Steer(ctl.poll(b.Window, proj), dt)

		f, err := frame.Compute(cam, proj, p.cfg.Render.SkyScale)
		if err != nil {
			return res, fmt.Errorf("frame %d: %w", res.Frames, err)
		}

		start := time.Now()
		clip = tr.Transform(clip, build.Mesh.Vertices, f.PV)
		elapsed := time.Since(start)
		res.Transform += elapsed
		if p.metrics != nil {
			p.metrics.ObserveFrame(len(clip), elapsed)
		}

		skyProg.Use()
		if err := gpu.SetMatrix(skyProg, "sky_imvp", f.SkyInverse); err != nil {
			return res, err
		}

		worldProg.Use()
		if err := b.Buffers.Update(bufs.Vertices, gpu.PackVertices(clip)); err != nil {
			return res, fmt.Errorf("frame %d: %w", res.Frames, err)
		}
		b.Buffers.Bind(bufs.Vertices)
		b.Buffers.Bind(bufs.Indices)
		b.Buffers.Bind(bufs.Normals)

		b.Window.SwapBuffers()

		res.Frames++
		res.Last = f
		p.log.Trace("run %s: frame %d eye %v", p.runID, res.Frames, f.Eye)
	}

	res.Camera = *cam
	res.Zoomed = proj.Zoomed()
	res.Vertices = clip
	span.SetAttributes(attribute.Int("frames", res.Frames))
	p.log.Info("run %s: %d frames, %s transforming", p.runID, res.Frames, res.Transform)
	return res, nil
}

func link(sb gpu.ShaderBackend, vertex, fragment string) (gpu.Program, error) {
	vs, err := sb.Compile(gpu.VertexStage, vertex)
	if err != nil {
		return nil, err
	}
	fs, err := sb.Compile(gpu.FragmentStage, fragment)
	if err != nil {
		return nil, err
	}
	return sb.Link(vs, fs)
}
