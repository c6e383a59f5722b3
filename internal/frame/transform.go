package frame

import (
	"runtime"
	"sync"

	"github.com/alitto/pond/v2"

	"github.com/annel0/geo/internal/geo"
	"github.com/annel0/geo/internal/mesh"
)

// DefaultBatch is the number of vertices a Transformer hands to one task.
const DefaultBatch = 4096

// Transform returns a copy of world with every position multiplied by pv.
// Colors are copied unchanged and world is not modified.
func Transform(world []mesh.Vertex, pv geo.Mat4) []mesh.Vertex {
	return TransformInto(nil, world, pv)
}

// TransformInto is Transform writing into dst, which is grown when it is too
// short. The returned slice has len(world) elements.
func TransformInto(dst, world []mesh.Vertex, pv geo.Mat4) []mesh.Vertex {
	dst = grow(dst, len(world))
	transformRange(dst, world, pv)
	return dst
}

func grow(dst []mesh.Vertex, n int) []mesh.Vertex {
	if cap(dst) < n {
		return make([]mesh.Vertex, n)
	}
	return dst[:n]
}

func transformRange(dst, world []mesh.Vertex, pv geo.Mat4) {
	for i := range world {
		dst[i] = mesh.Vertex{Pos: pv.Apply(world[i].Pos), Col: world[i].Col}
	}
}

// Transformer splits the transform into fixed batches run on a worker pool.
// Batches write disjoint ranges of the output, so the result is identical to
// Transform for the same input.
type Transformer struct {
	pool  pond.Pool
	batch int
}

// NewTransformer starts a pool of workers. workers <= 0 uses one per CPU and
// batch <= 0 uses DefaultBatch.
func NewTransformer(workers, batch int) *Transformer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if batch <= 0 {
		batch = DefaultBatch
	}
	return &Transformer{
		pool:  pond.NewPool(workers),
		batch: batch,
	}
}

// Transform is the pooled TransformInto. Streams no longer than one batch are
// transformed on the calling goroutine.
func (t *Transformer) Transform(dst, world []mesh.Vertex, pv geo.Mat4) []mesh.Vertex {
	dst = grow(dst, len(world))
	if len(world) <= t.batch {
		transformRange(dst, world, pv)
		return dst
	}

	var wg sync.WaitGroup
	for start := 0; start < len(world); start += t.batch {
		start, end := start, min(start+t.batch, len(world))

		wg.Add(1)
		t.pool.Submit(func() {
			defer wg.Done()
			transformRange(dst[start:end], world[start:end], pv)
		})
	}
	wg.Wait()

	return dst
}

// Batch returns the batch size.
func (t *Transformer) Batch() int { return t.batch }

// Close waits for running tasks and stops the pool.
func (t *Transformer) Close() {
	t.pool.StopAndWait()
}
