package metrics

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/annel0/geo/internal/logging"
	"github.com/annel0/geo/internal/mesh"
)

const namespace = "geo"

// Exporter owns the Prometheus metrics of the pipeline and serves them over
// HTTP. Each Exporter has its own registry.
type Exporter struct {
	registry *prometheus.Registry
	proc     *process.Process
	server   *http.Server
	quit     chan struct{}
	done     chan struct{}

	meshBuilds    prometheus.Counter
	meshFaces     prometheus.Counter
	meshCulled    prometheus.Counter
	meshVertices  prometheus.Gauge
	meshSeconds   prometheus.Histogram
	cacheLookups  *prometheus.CounterVec
	frames        prometheus.Counter
	frameVertices prometheus.Counter
	frameSeconds  prometheus.Histogram
	processCPU    prometheus.Gauge
	processRSS    prometheus.Gauge
}

// NewExporter creates and registers the metrics without starting a server.
func NewExporter() (*Exporter, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}

	e := &Exporter{
		registry: prometheus.NewRegistry(),
		proc:     proc,
		meshBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mesh_builds_total",
			Help:      "Meshes built from a voxel volume.",
		}),
		meshFaces: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mesh_faces_total",
			Help:      "Faces emitted by the mesh builder.",
		}),
		meshCulled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mesh_faces_culled_total",
			Help:      "Faces dropped against a solid neighbor.",
		}),
		meshVertices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mesh_vertices",
			Help:      "Vertices of the current mesh.",
		}),
		meshSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mesh_build_seconds",
			Help:      "Time spent building a mesh.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mesh_cache_lookups_total",
			Help:      "Mesh cache lookups by result.",
		}, []string{"result"}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames transformed.",
		}),
		frameVertices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_vertices_total",
			Help:      "Vertices transformed to clip space.",
		}),
		frameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_transform_seconds",
			Help:      "Time spent in the per frame transform.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		processCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_cpu_percent",
			Help:      "CPU used by the process.",
		}),
		processRSS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_rss_bytes",
			Help:      "Resident memory of the process.",
		}),
	}

	err = errors.Join(
		e.registry.Register(e.meshBuilds),
		e.registry.Register(e.meshFaces),
		e.registry.Register(e.meshCulled),
		e.registry.Register(e.meshVertices),
		e.registry.Register(e.meshSeconds),
		e.registry.Register(e.cacheLookups),
		e.registry.Register(e.frames),
		e.registry.Register(e.frameVertices),
		e.registry.Register(e.frameSeconds),
		e.registry.Register(e.processCPU),
		e.registry.Register(e.processRSS),
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Registry returns the registry the metrics live in.
func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

// ObserveMesh records one mesh build.
func (e *Exporter) ObserveMesh(stats mesh.Stats, d time.Duration) {
	e.meshBuilds.Inc()
	e.meshFaces.Add(float64(stats.Faces))
	e.meshCulled.Add(float64(stats.Culled))
	e.meshVertices.Set(float64(stats.Vertices))
	e.meshSeconds.Observe(d.Seconds())
}

// ObserveCache records a cache lookup.
func (e *Exporter) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	e.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveFrame records one frame transform.
func (e *Exporter) ObserveFrame(vertices int, d time.Duration) {
	e.frames.Inc()
	e.frameVertices.Add(float64(vertices))
	e.frameSeconds.Observe(d.Seconds())
}

// SampleProcess updates the process gauges.
func (e *Exporter) SampleProcess() error {
	cpu, err := e.proc.CPUPercent()
	if err != nil {
		return err
	}
	mem, err := e.proc.MemoryInfo()
	if err != nil {
		return err
	}

	e.processCPU.Set(cpu)
	e.processRSS.Set(float64(mem.RSS))
	return nil
}

// Handler serves the registry in the Prometheus text format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// StartHTTP serves /metrics on addr and samples process stats every second.
// It does not block.
func (e *Exporter) StartHTTP(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	e.server = &http.Server{Addr: addr, Handler: mux}
	e.quit = make(chan struct{})
	e.done = make(chan struct{})

	go func() {
		logging.Info("Prometheus /metrics on %s", addr)
		if err := e.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Prometheus HTTP server: %v", err)
		}
	}()
	go e.loop()
}

// Stop ends sampling and shuts the HTTP server down.
func (e *Exporter) Stop(ctx context.Context) error {
	if e.server == nil {
		return nil
	}
	close(e.quit)
	<-e.done
	return e.server.Shutdown(ctx)
}

func (e *Exporter) loop() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	defer close(e.done)

	for {
		select {
		case <-ticker.C:
			if err := e.SampleProcess(); err != nil {
				logging.Debug("process sample: %v", err)
			}
		case <-e.quit:
			return
		}
	}
}
