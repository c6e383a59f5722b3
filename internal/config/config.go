package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the root of the YAML configuration. Fields left out of the file
// keep the values of Default.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Mesh       MeshConfig       `yaml:"mesh"`
	Camera     CameraConfig     `yaml:"camera"`
	Projection ProjectionConfig `yaml:"projection"`
	Render     RenderConfig     `yaml:"render"`
	Storage    StorageConfig    `yaml:"storage"`
	Server     ServerConfig     `yaml:"server"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type WorldConfig struct {
	Length    int    `yaml:"length"`
	Height    int    `yaml:"height"`
	Generator string `yaml:"generator"` // sphere, solid or terrain
	Seed      int64  `yaml:"seed"`
}

type MeshConfig struct {
	Pitch      float32    `yaml:"pitch"`
	Origin     [3]float32 `yaml:"origin"`
	Coloring   string     `yaml:"coloring"` // gradient or block
	SkipHidden bool       `yaml:"skip_hidden"`
}

type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Yaw         float32    `yaml:"yaw_degrees"`
	Pitch       float32    `yaml:"pitch_degrees"`
	Sensitivity float32    `yaml:"sensitivity"`
	Speed       float32    `yaml:"speed"`
}

type ProjectionConfig struct {
	FOV     float32 `yaml:"fov_degrees"`
	ZoomFOV float32 `yaml:"zoom_fov_degrees"`
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Near    float32 `yaml:"near"`
	Far     float32 `yaml:"far"`
}

type RenderConfig struct {
	Frames   int     `yaml:"frames"`
	Step     float64 `yaml:"step_seconds"`
	Workers  int     `yaml:"workers"`
	Batch    int     `yaml:"batch"`
	SkyScale float32 `yaml:"sky_scale"`
}

type StorageConfig struct {
	Path    string `yaml:"path"`
	Enabled bool   `yaml:"enabled"`
}

type ServerConfig struct {
	MetricsPort int `yaml:"metrics_port"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given: a 16^3
// sphere seen from the prototype's starting camera.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Length:    16,
			Height:    1,
			Generator: "sphere",
			Seed:      1,
		},
		Mesh: MeshConfig{
			Pitch:    2,
			Coloring: "gradient",
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 2, 6},
			Yaw:         -90,
			Pitch:       -10,
			Sensitivity: 0.002,
			Speed:       5,
		},
		Projection: ProjectionConfig{
			FOV:     90,
			ZoomFOV: 60,
			Width:   1280,
			Height:  720,
			Near:    0.1,
			Far:     100,
		},
		Render: RenderConfig{
			Frames:   120,
			Step:     1.0 / 60,
			SkyScale: 10,
		},
		Storage: StorageConfig{
			Path:    "data",
			Enabled: true,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "geo",
		},
		Logging: LoggingConfig{
			Dir:   "logs",
			Level: "info",
		},
	}
}

// GetMetricsPort returns the Prometheus port: config, then GEO_METRICS_PORT,
// then 2112.
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "GEO_METRICS_PORT", 2112)
}

// GetEndpoint returns the OTLP endpoint: config, then
// OTEL_EXPORTER_OTLP_ENDPOINT, then localhost:4318.
func (t *TelemetryConfig) GetEndpoint() string {
	if t.Endpoint != "" {
		return t.Endpoint
	}
	if env := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); env != "" {
		return env
	}
	return "localhost:4318"
}

// getPortWithEnvFallback returns configPort if set, otherwise the port in
// envVar, otherwise defaultPort.
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

var ErrInvalid = errors.New("config: invalid value")

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.World.Length <= 0:
		return fmt.Errorf("%w: world.length %d", ErrInvalid, c.World.Length)
	case c.World.Height <= 0:
		return fmt.Errorf("%w: world.height %d", ErrInvalid, c.World.Height)
	case c.Mesh.Pitch <= 0:
		return fmt.Errorf("%w: mesh.pitch %g", ErrInvalid, c.Mesh.Pitch)
	case c.Mesh.Coloring != "gradient" && c.Mesh.Coloring != "block":
		return fmt.Errorf("%w: mesh.coloring %q", ErrInvalid, c.Mesh.Coloring)
	case c.Projection.Width <= 0 || c.Projection.Height <= 0:
		return fmt.Errorf("%w: projection %dx%d", ErrInvalid, c.Projection.Width, c.Projection.Height)
	case c.Projection.Near <= 0 || c.Projection.Far <= c.Projection.Near:
		return fmt.Errorf("%w: projection near %g far %g", ErrInvalid, c.Projection.Near, c.Projection.Far)
	case c.Projection.FOV <= 0 || c.Projection.FOV >= 180:
		return fmt.Errorf("%w: projection.fov_degrees %g", ErrInvalid, c.Projection.FOV)
	case c.Projection.ZoomFOV <= 0 || c.Projection.ZoomFOV >= 180:
		return fmt.Errorf("%w: projection.zoom_fov_degrees %g", ErrInvalid, c.Projection.ZoomFOV)
	case c.Render.Frames < 0:
		return fmt.Errorf("%w: render.frames %d", ErrInvalid, c.Render.Frames)
	case c.Render.Step <= 0:
		return fmt.Errorf("%w: render.step_seconds %g", ErrInvalid, c.Render.Step)
	case c.Render.SkyScale <= 0:
		return fmt.Errorf("%w: render.sky_scale %g", ErrInvalid, c.Render.SkyScale)
	}
	return nil
}

// Load reads a YAML file over Default. If path is empty it falls back to the
// GEO_CONFIG environment variable, and to Default alone when that is unset
// too.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("GEO_CONFIG")
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
