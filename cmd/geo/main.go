package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/geo/internal/app"
	"github.com/annel0/geo/internal/config"
	"github.com/annel0/geo/internal/gpu"
	"github.com/annel0/geo/internal/logging"
	"github.com/annel0/geo/internal/metrics"
	"github.com/annel0/geo/internal/observability"
	"github.com/annel0/geo/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config (default $GEO_CONFIG)")
	frames := flag.Int("frames", 0, "number of headless frames, overrides render.frames")
	serveMetrics := flag.Bool("metrics", false, "serve Prometheus metrics while running")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *frames > 0 {
		cfg.Render.Frames = *frames
	}

	logging.SetLogDir(cfg.Logging.Dir)
	if err := logging.InitDefaultLogger("geo"); err != nil {
		log.Fatalf("init logging: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		logging.Warn("%v, using INFO", err)
	}
	logging.DefaultLogger().SetLevels(level, logging.TRACE)

	if err := run(cfg, *serveMetrics); err != nil {
		logging.Error("%v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, serveMetrics bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.GetEndpoint())
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logging.Warn("telemetry shutdown: %v", err)
			}
		}()
	}

	exp, err := metrics.NewExporter()
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	if serveMetrics {
		exp.StartHTTP(fmt.Sprintf(":%d", cfg.Server.GetMetricsPort()))
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			exp.Stop(ctx)
		}()
	}

	opts := []app.Option{app.WithMetrics(exp)}
	if cfg.Storage.Enabled {
		cache, err := storage.NewMeshCache(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("open mesh cache: %w", err)
		}
		defer cache.Close()
		opts = append(opts, app.WithCache(cache))
	}

	p, err := app.New(cfg, opts...)
	if err != nil {
		return err
	}
	logging.Info("run %s: %s world %d^3 x %d, %d frames",
		p.RunID(), cfg.World.Generator, cfg.World.Length, cfg.World.Height, cfg.Render.Frames)

	rec := gpu.NewBoundedRecorder(0)
	backend := app.Backend{
		Window:  gpu.NewHeadless(cfg.Render.Frames, cfg.Render.Step, orbit),
		Shaders: rec,
		Buffers: rec,
	}

	res, err := p.Run(ctx, backend, app.DefaultShaders())
	if err != nil {
		return err
	}

	if err := exp.SampleProcess(); err != nil {
		logging.Debug("process sample: %v", err)
	}
	logging.Info("run %s: %d frames, mesh %s, cache hit %t, %d backend calls",
		res.RunID, res.Frames, res.Build.Stats, res.Build.CacheHit, rec.Total())
	logging.Info("camera at %v, transform total %s", res.Camera.Pos, res.Transform)
	return nil
}

// orbit is the scripted input of the headless run: fly forward while
// turning slowly, with the cursor locked.
func orbit(frame int) gpu.InputState {
	return gpu.InputState{
		Keys:    map[gpu.Key]bool{gpu.KeyW: frame%120 < 60, gpu.KeyA: true},
		Buttons: map[gpu.Button]bool{gpu.MouseRight: true},
		X:       float64(frame * 2),
	}
}
