package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/geo/internal/mesh"
)

func TestObserveMesh(t *testing.T) {
	e, err := NewExporter()
	require.NoError(t, err)

	e.ObserveMesh(mesh.Stats{Blocks: 8, Faces: 24, Culled: 24, Vertices: 64}, 3*time.Millisecond)
	e.ObserveMesh(mesh.Stats{Blocks: 1, Faces: 6, Vertices: 8}, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(e.meshBuilds))
	assert.Equal(t, 30.0, testutil.ToFloat64(e.meshFaces))
	assert.Equal(t, 24.0, testutil.ToFloat64(e.meshCulled))
	assert.Equal(t, 8.0, testutil.ToFloat64(e.meshVertices))
}

func TestObserveCacheAndFrames(t *testing.T) {
	e, err := NewExporter()
	require.NoError(t, err)

	e.ObserveCache(true)
	e.ObserveCache(false)
	e.ObserveCache(false)
	e.ObserveFrame(100, time.Microsecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(e.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.frames))
	assert.Equal(t, 100.0, testutil.ToFloat64(e.frameVertices))
}

func TestHandlerServesMetrics(t *testing.T) {
	e, err := NewExporter()
	require.NoError(t, err)
	e.ObserveFrame(10, time.Millisecond)
	require.NoError(t, e.SampleProcess())

	srv := httptest.NewServer(e.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "geo_frames_total 1")
	assert.Contains(t, string(body), "geo_process_rss_bytes")
	assert.Greater(t, testutil.ToFloat64(e.processRSS), 0.0)
}

func TestStopWithoutStart(t *testing.T) {
	e, err := NewExporter()
	require.NoError(t, err)
	assert.NoError(t, e.Stop(context.Background()))
}

func TestStartAndStop(t *testing.T) {
	e, err := NewExporter()
	require.NoError(t, err)

	e.StartHTTP("127.0.0.1:0")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, e.Stop(ctx))
}
