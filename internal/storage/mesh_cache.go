package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/annel0/geo/internal/geo"
	"github.com/annel0/geo/internal/gpu"
	"github.com/annel0/geo/internal/logging"
	"github.com/annel0/geo/internal/mesh"
)

// ErrNotReady is returned after Close.
var ErrNotReady = errors.New("storage: mesh cache is closed")

// Key identifies a mesh by everything that went into building it.
type Key struct {
	Generator  string   `json:"generator"`
	Seed       int64    `json:"seed"`
	Length     int      `json:"length"`
	Height     int      `json:"height"`
	Pitch      float32  `json:"pitch"`
	Origin     geo.Vec3 `json:"origin"`
	Coloring   int      `json:"coloring"`
	SkipHidden bool     `json:"skip_hidden"`
}

// Hash returns the 64 bit digest of the key.
func (k Key) Hash() uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%s|%d|%d|%d|%g|%g,%g,%g|%d|%t",
		k.Generator, k.Seed, k.Length, k.Height, k.Pitch,
		k.Origin[0], k.Origin[1], k.Origin[2], k.Coloring, k.SkipHidden))
}

func (k Key) dbKey() []byte {
	return []byte(fmt.Sprintf("mesh:%016x", k.Hash()))
}

// Record is the stored form of a mesh. The streams are packed the way they
// are uploaded.
type Record struct {
	ID        string     `json:"id"`
	Key       Key        `json:"key"`
	CreatedAt time.Time  `json:"created_at"`
	Stats     mesh.Stats `json:"stats"`
	Vertices  []byte     `json:"vertices"`
	Indices   []byte     `json:"indices"`
	Normals   []byte     `json:"normals"`
}

// Mesh unpacks the streams.
func (r *Record) Mesh() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: gpu.UnpackVertices(r.Vertices),
		Indices:  gpu.UnpackUint32(r.Indices),
		Normals:  gpu.UnpackUint32(r.Normals),
	}
}

// MeshCache keeps built meshes in BadgerDB, zstd compressed.
type MeshCache struct {
	db      *badger.DB
	dbPath  string
	enc     *zstd.Encoder
	dec     *zstd.Decoder
	log     *logging.Logger
	mutex   sync.RWMutex
	isReady bool
}

// Option configures a MeshCache.
type Option func(*MeshCache)

// WithLogger replaces the "storage" component logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *MeshCache) { c.log = l }
}

// NewMeshCache opens or creates a cache under dataPath/meshes.
func NewMeshCache(dataPath string, opts ...Option) (*MeshCache, error) {
	dbPath := filepath.Join(dataPath, "meshes")
	bopts := badger.DefaultOptions(dbPath)
	bopts.Logger = nil

	return openMeshCache(bopts, dbPath, opts)
}

// NewMemoryMeshCache opens a cache that lives only in memory.
func NewMemoryMeshCache(opts ...Option) (*MeshCache, error) {
	bopts := badger.DefaultOptions("").WithInMemory(true)
	bopts.Logger = nil

	return openMeshCache(bopts, "", opts)
}

func openMeshCache(bopts badger.Options, dbPath string, opts []Option) (*MeshCache, error) {
	c := &MeshCache{dbPath: dbPath}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logging.GetStorageLogger()
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}

	c.db, c.enc, c.dec = db, enc, dec
	c.isReady = true

	if dbPath == "" {
		c.log.Info("Mesh cache opened in memory")
	} else {
		c.log.Info("Mesh cache opened at %s", dbPath)
	}
	return c, nil
}

// Path returns the database directory, empty for an in-memory cache.
func (c *MeshCache) Path() string { return c.dbPath }

// Close flushes and closes the database.
func (c *MeshCache) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.isReady {
		return nil
	}
	c.isReady = false

	c.enc.Close()
	c.dec.Close()
	if err := c.db.Close(); err != nil {
		c.log.Error("Mesh cache close failed: %v", err)
		return err
	}
	c.log.Info("Mesh cache closed")
	return nil
}

// Put stores m under key and returns the record ID.
func (c *MeshCache) Put(key Key, m *mesh.Mesh, stats mesh.Stats) (string, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if !c.isReady {
		return "", ErrNotReady
	}

	rec := Record{
		ID:        uuid.NewString(),
		Key:       key,
		CreatedAt: time.Now().UTC(),
		Stats:     stats,
		Vertices:  gpu.PackVertices(m.Vertices),
		Indices:   gpu.PackIndices(m.Indices),
		Normals:   gpu.PackNormals(m.Normals),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal mesh record: %w", err)
	}
	packed := c.enc.EncodeAll(data, nil)

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key.dbKey(), packed)
	})
	if err != nil {
		return "", fmt.Errorf("store mesh %s: %w", rec.ID, err)
	}

	c.log.Debug("Stored mesh %s under %016x (%d bytes packed)", rec.ID, key.Hash(), len(packed))
	return rec.ID, nil
}

// Load returns the record stored under key. found is false when there is
// none.
func (c *MeshCache) Load(key Key) (rec *Record, found bool, err error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if !c.isReady {
		return nil, false, ErrNotReady
	}

	var packed []byte
	err = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key.dbKey())
		if err != nil {
			return err
		}
		packed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read mesh: %w", err)
	}

	data, err := c.dec.DecodeAll(packed, nil)
	if err != nil {
		return nil, false, fmt.Errorf("decompress mesh: %w", err)
	}

	rec = &Record{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, false, fmt.Errorf("unmarshal mesh record: %w", err)
	}
	if rec.Key != key {
		c.log.Warn("Mesh record %s under %016x belongs to another key", rec.ID, key.Hash())
		return nil, false, fmt.Errorf("mesh record %s: key hash collision", rec.ID)
	}

	return rec, true, nil
}

// Get returns the mesh stored under key.
func (c *MeshCache) Get(key Key) (*mesh.Mesh, bool, error) {
	rec, found, err := c.Load(key)
	if err != nil || !found {
		return nil, found, err
	}
	return rec.Mesh(), true, nil
}

// Delete removes the mesh stored under key, if any.
func (c *MeshCache) Delete(key Key) error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if !c.isReady {
		return ErrNotReady
	}

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key.dbKey())
	})
}

// Len returns the number of stored meshes.
func (c *MeshCache) Len() (int, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if !c.isReady {
		return 0, ErrNotReady
	}

	n := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte("mesh:")

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
