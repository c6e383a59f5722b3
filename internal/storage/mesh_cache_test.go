package storage

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/geo/internal/logging"
	"github.com/annel0/geo/internal/mesh"
	"github.com/annel0/geo/internal/world"
)

func quiet() Option {
	return WithLogger(logging.NewWriterLogger("storage", io.Discard, nil))
}

func setupMemoryCache(t *testing.T) *MeshCache {
	t.Helper()
	c, err := NewMemoryMeshCache(quiet())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func sphere(t *testing.T) (*mesh.Mesh, mesh.Stats) {
	t.Helper()
	s := world.NewPredicateGenerator(world.Sphere()).Subchunk(6)
	return mesh.BuildSubchunk(s, mesh.DefaultOptions())
}

var testKey = Key{Generator: "sphere", Length: 6, Height: 1, Pitch: 2}

func TestMeshCacheRoundTrip(t *testing.T) {
	c := setupMemoryCache(t)
	m, stats := sphere(t)

	id, err := c.Put(testKey, m, stats)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	got, found, err := c.Get(testKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, m.Vertices, got.Vertices)
	assert.Equal(t, m.Indices, got.Indices)
	assert.Equal(t, m.Normals, got.Normals)
	assert.NoError(t, got.Validate())

	rec, found, err := c.Load(testKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, stats, rec.Stats)
	assert.Equal(t, testKey, rec.Key)
}

func TestMeshCacheMiss(t *testing.T) {
	c := setupMemoryCache(t)

	m, found, err := c.Get(testKey)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, m)
}

func TestMeshCacheDelete(t *testing.T) {
	c := setupMemoryCache(t)
	m, stats := sphere(t)

	_, err := c.Put(testKey, m, stats)
	require.NoError(t, err)
	n, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, c.Delete(testKey))
	_, found, err := c.Get(testKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMeshCacheKeysAreDistinct(t *testing.T) {
	other := testKey
	other.Seed = 7
	assert.NotEqual(t, testKey.Hash(), other.Hash())

	other = testKey
	other.SkipHidden = true
	assert.NotEqual(t, testKey.Hash(), other.Hash())

	assert.Equal(t, testKey.Hash(), Key{Generator: "sphere", Length: 6, Height: 1, Pitch: 2}.Hash())
}

func TestMeshCacheClosed(t *testing.T) {
	c, err := NewMemoryMeshCache(quiet())
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, _, err = c.Get(testKey)
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = c.Put(testKey, &mesh.Mesh{}, mesh.Stats{})
	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, c.Delete(testKey), ErrNotReady)
}

func TestMeshCachePersists(t *testing.T) {
	dir := t.TempDir()
	m, stats := sphere(t)

	c, err := NewMeshCache(dir, quiet())
	require.NoError(t, err)
	_, err = c.Put(testKey, m, stats)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = NewMeshCache(dir, quiet())
	require.NoError(t, err)
	defer c.Close()

	got, found, err := c.Get(testKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, m.Indices, got.Indices)
}

func TestMeshCacheLogs(t *testing.T) {
	var buf bytes.Buffer
	c, err := NewMemoryMeshCache(WithLogger(logging.NewWriterLogger("storage", &buf, nil)))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[INFO] [storage] Mesh cache opened in memory")

	// Store a record for another key under testKey's slot.
	other := testKey
	other.Seed = 99
	data, err := json.Marshal(Record{ID: "foreign", Key: other})
	require.NoError(t, err)
	require.NoError(t, c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(testKey.dbKey(), c.enc.EncodeAll(data, nil))
	}))

	_, found, err := c.Load(testKey)
	assert.Error(t, err)
	assert.False(t, found)
	assert.Contains(t, buf.String(), "[WARN] [storage] Mesh record foreign")

	require.NoError(t, c.Close())
	assert.Contains(t, buf.String(), "[INFO] [storage] Mesh cache closed")
}
