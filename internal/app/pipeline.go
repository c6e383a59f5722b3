package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/annel0/geo/internal/config"
	"github.com/annel0/geo/internal/logging"
	"github.com/annel0/geo/internal/mesh"
	"github.com/annel0/geo/internal/metrics"
	"github.com/annel0/geo/internal/observability"
	"github.com/annel0/geo/internal/storage"
	"github.com/annel0/geo/internal/world"
)

// Pipeline generates a voxel chunk, meshes it and drives the frame loop.
// Cache and metrics are optional.
type Pipeline struct {
	cfg     *config.Config
	log     *logging.Logger
	meshLog *logging.Logger
	cache   *storage.MeshCache
	metrics *metrics.Exporter
	runID   string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCache stores and reuses meshes in c.
func WithCache(c *storage.MeshCache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithMetrics records build and frame metrics on e.
func WithMetrics(e *metrics.Exporter) Option {
	return func(p *Pipeline) { p.metrics = e }
}

// WithLogger sends the output of the "render" and "mesh" components to l.
func WithLogger(l *logging.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
		p.meshLog = l
	}
}

// New creates a pipeline for a validated configuration.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:   cfg,
		runID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logging.GetRenderLogger()
	}
	if p.meshLog == nil {
		p.meshLog = logging.GetMeshLogger()
	}
	return p, nil
}

// RunID identifies this pipeline in logs and traces.
func (p *Pipeline) RunID() string { return p.runID }

// MeshOptions translates the mesh section of the configuration.
func (p *Pipeline) MeshOptions() mesh.Options {
	opts := mesh.Options{
		Pitch:      p.cfg.Mesh.Pitch,
		Origin:     p.cfg.Mesh.Origin,
		SkipHidden: p.cfg.Mesh.SkipHidden,
	}
	if p.cfg.Mesh.Coloring == "block" {
		opts.Coloring = mesh.ColorBlock
	}
	return opts
}

// CacheKey identifies the mesh the configuration produces.
func (p *Pipeline) CacheKey() storage.Key {
	opts := p.MeshOptions()
	return storage.Key{
		Generator:  p.cfg.World.Generator,
		Seed:       p.cfg.World.Seed,
		Length:     p.cfg.World.Length,
		Height:     p.cfg.World.Height,
		Pitch:      opts.Pitch,
		Origin:     opts.Origin,
		Coloring:   int(opts.Coloring),
		SkipHidden: opts.SkipHidden,
	}
}

// Generate fills the chunk described by the world section.
func (p *Pipeline) Generate(ctx context.Context) (*world.Chunk, error) {
	_, span := observability.Start(ctx, "world.generate")
	defer span.End()

	gen, err := world.NewGenerator(world.GeneratorKind(p.cfg.World.Generator), p.cfg.World.Seed)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	c := gen.Chunk(p.cfg.World.Length, p.cfg.World.Height)
	span.SetAttributes(
		attribute.String("generator", p.cfg.World.Generator),
		attribute.Int("blocks", c.Count()),
	)
	p.meshLog.Debug("run %s: generated %s chunk %dx%d, %d blocks",
		p.runID, p.cfg.World.Generator, p.cfg.World.Length, p.cfg.World.Height, c.Count())
	return c, nil
}

// BuildResult is a mesh and where it came from.
type BuildResult struct {
	Mesh     *mesh.Mesh
	Stats    mesh.Stats
	CacheHit bool
	RecordID string
}

// Build returns the mesh of the configured chunk, from the cache when it
// holds one for the same parameters.
func (p *Pipeline) Build(ctx context.Context) (BuildResult, error) {
	ctx, span := observability.Start(ctx, "mesh.build")
	defer span.End()

	key := p.CacheKey()
	if p.cache != nil {
		rec, found, err := p.cache.Load(key)
		if err != nil {
			p.log.Warn("run %s: mesh cache read failed: %v", p.runID, err)
		}
		if p.metrics != nil {
			p.metrics.ObserveCache(found)
		}
		if found {
			m := rec.Mesh()
			if err := m.Validate(); err != nil {
				p.meshLog.Warn("run %s: cached mesh %s is invalid, rebuilding: %v", p.runID, rec.ID, err)
			} else {
				span.SetAttributes(attribute.Bool("cache_hit", true))
				p.meshLog.Info("run %s: mesh %s loaded from cache (%s)", p.runID, rec.ID, rec.Stats)
				return BuildResult{Mesh: m, Stats: rec.Stats, CacheHit: true, RecordID: rec.ID}, nil
			}
		}
	}

	c, err := p.Generate(ctx)
	if err != nil {
		return BuildResult{}, fmt.Errorf("generate: %w", err)
	}

	start := time.Now()
	m, stats := mesh.BuildChunk(c, p.MeshOptions())
	elapsed := time.Since(start)

	if err := m.Validate(); err != nil {
		span.RecordError(err)
		return BuildResult{}, fmt.Errorf("mesh invariants: %w", err)
	}
	if p.metrics != nil {
		p.metrics.ObserveMesh(stats, elapsed)
	}
	span.SetAttributes(
		attribute.Bool("cache_hit", false),
		attribute.Int("faces", stats.Faces),
		attribute.Int("culled", stats.Culled),
	)
	p.meshLog.Info("run %s: built mesh in %s (%s)", p.runID, elapsed, stats)

	res := BuildResult{Mesh: m, Stats: stats}
	if p.cache != nil {
		id, err := p.cache.Put(key, m, stats)
		if err != nil {
			p.log.Warn("run %s: mesh cache write failed: %v", p.runID, err)
		} else {
			res.RecordID = id
		}
	}
	return res, nil
}
