package app

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/geo/internal/config"
	"github.com/annel0/geo/internal/frame"
	"github.com/annel0/geo/internal/geo"
	"github.com/annel0/geo/internal/gpu"
	"github.com/annel0/geo/internal/logging"
	"github.com/annel0/geo/internal/mesh"
	"github.com/annel0/geo/internal/metrics"
	"github.com/annel0/geo/internal/storage"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.World.Length = 4
	cfg.Render.Frames = 5
	cfg.Render.Batch = 16
	cfg.Render.Workers = 2
	return cfg
}

func quietLogger() Option {
	return WithLogger(logging.NewWriterLogger("render", io.Discard, nil))
}

func newPipeline(t *testing.T, cfg *config.Config, opts ...Option) *Pipeline {
	t.Helper()
	p, err := New(cfg, append([]Option{quietLogger()}, opts...)...)
	require.NoError(t, err)
	return p
}

func headless(cfg *config.Config, script gpu.Script) (Backend, *gpu.Recorder) {
	rec := gpu.NewRecorder()
	return Backend{
		Window:  gpu.NewHeadless(cfg.Render.Frames, cfg.Render.Step, script),
		Shaders: rec,
		Buffers: rec,
	}, rec
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.World.Length = 0
	_, err := New(cfg, quietLogger())
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestBuildUsesCache(t *testing.T) {
	cache, err := storage.NewMemoryMeshCache(storage.WithLogger(logging.NewWriterLogger("storage", io.Discard, nil)))
	require.NoError(t, err)
	defer cache.Close()
	exp, err := metrics.NewExporter()
	require.NoError(t, err)

	cfg := testConfig()
	first, err := newPipeline(t, cfg, WithCache(cache), WithMetrics(exp)).Build(context.Background())
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.NotEmpty(t, first.RecordID)
	require.NoError(t, first.Mesh.Validate())

	second, err := newPipeline(t, cfg, WithCache(cache), WithMetrics(exp)).Build(context.Background())
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.RecordID, second.RecordID)
	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, first.Mesh.Indices, second.Mesh.Indices)

	// A different seed is a different mesh.
	cfg.World.Seed++
	third, err := newPipeline(t, cfg, WithCache(cache)).Build(context.Background())
	require.NoError(t, err)
	assert.False(t, third.CacheHit)
}

func TestBuildLogsToMeshComponent(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	_, err := newPipeline(t, cfg, WithLogger(logging.NewWriterLogger("mesh", &buf, nil))).Build(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[INFO] [mesh] run ")
	assert.Contains(t, buf.String(), "built mesh in")
}

func TestBuildUnknownGenerator(t *testing.T) {
	cfg := testConfig()
	cfg.World.Generator = "mountains"

	_, err := newPipeline(t, cfg).Build(context.Background())
	assert.Error(t, err)
}

func TestMeshOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Mesh.Coloring = "block"
	cfg.Mesh.Origin = [3]float32{1, 2, 3}

	opts := newPipeline(t, cfg).MeshOptions()
	assert.Equal(t, mesh.ColorBlock, opts.Coloring)
	assert.Equal(t, float32(2), opts.Pitch)
	assert.Equal(t, float32(3), opts.Origin[2])
}

func TestRunTransformsEveryFrame(t *testing.T) {
	cfg := testConfig()
	b, rec := headless(cfg, nil)

	res, err := newPipeline(t, cfg).Run(context.Background(), b, DefaultShaders())
	require.NoError(t, err)

	assert.Equal(t, 5, res.Frames)
	assert.Equal(t, 5, rec.Count("update"))
	assert.Equal(t, 2, rec.Count("link"))

	require.Len(t, res.Vertices, len(res.Build.Mesh.Vertices))
	assert.Equal(t, frame.Transform(res.Build.Mesh.Vertices, res.Last.PV), res.Vertices)

	sky, ok := rec.Uniform("sky_imvp")
	require.True(t, ok)
	assert.Equal(t, res.Last.SkyInverse.Float32(), sky)
}

func TestRunSteersCamera(t *testing.T) {
	cfg := testConfig()
	cfg.Render.Frames = 20
	b, _ := headless(cfg, func(f int) gpu.InputState {
		return gpu.InputState{
			Keys: map[gpu.Key]bool{gpu.KeyW: true},
			// Press and release the middle button once.
			Buttons: map[gpu.Button]bool{gpu.MouseMiddle: f == 3},
		}
	})

	res, err := newPipeline(t, cfg).Run(context.Background(), b, DefaultShaders())
	require.NoError(t, err)

	assert.Less(t, res.Camera.Pos[2], cfg.Camera.Position[2])
	assert.True(t, res.Zoomed)
}

func TestRunMouseLook(t *testing.T) {
	cfg := testConfig()
	b, _ := headless(cfg, func(f int) gpu.InputState {
		return gpu.InputState{
			Buttons: map[gpu.Button]bool{gpu.MouseRight: true},
			X:       float64(f * 50),
		}
	})

	res, err := newPipeline(t, cfg).Run(context.Background(), b, DefaultShaders())
	require.NoError(t, err)

	// Four frames of 50 pixels at the default sensitivity.
	want := geo.Radians(-cfg.Camera.Yaw) + 4*50*cfg.Camera.Sensitivity
	assert.InDelta(t, want, res.Camera.Yaw, 1e-4)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Render.Frames = 1000
	b, _ := headless(cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newPipeline(t, cfg).Run(ctx, b, DefaultShaders())
	require.NoError(t, err)
	assert.Zero(t, res.Frames)
}

func TestRunRejectsEmptyShader(t *testing.T) {
	cfg := testConfig()
	b, _ := headless(cfg, nil)

	shaders := DefaultShaders()
	shaders.SkyFragment = ""
	_, err := newPipeline(t, cfg).Run(context.Background(), b, shaders)
	assert.ErrorIs(t, err, gpu.ErrEmptySource)
}
