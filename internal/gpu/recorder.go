package gpu

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrUnknownBuffer = errors.New("gpu: unknown buffer")
	ErrEmptySource   = errors.New("gpu: empty shader source")
)

// Call is one recorded backend call.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string { return fmt.Sprintf("%s%v", c.Op, c.Args) }

// Recorder is an in-memory ShaderBackend and BufferBackend. It keeps the
// latest contents of every buffer, counts every call and logs the first ones,
// which makes it the backend of the headless driver and of tests.
type Recorder struct {
	mu       sync.Mutex
	calls    []Call
	limit    int // log capacity, negative for unbounded
	counts   map[string]int
	total    int
	buffers  map[uint32][]byte
	layouts  map[uint32]Layout
	uniforms map[string][16]float32
	nextID   uint32
}

// NewRecorder logs every call.
func NewRecorder() *Recorder {
	return NewBoundedRecorder(-1)
}

// NewBoundedRecorder logs at most limit calls and only counts the rest, so
// long runs keep constant memory. A limit of 0 only counts.
func NewBoundedRecorder(limit int) *Recorder {
	return &Recorder{
		limit:    limit,
		counts:   make(map[string]int),
		buffers:  make(map[uint32][]byte),
		layouts:  make(map[uint32]Layout),
		uniforms: make(map[string][16]float32),
	}
}

func (r *Recorder) record(op string, args ...any) {
	r.counts[op]++
	r.total++
	if r.limit < 0 || len(r.calls) < r.limit {
		r.calls = append(r.calls, Call{Op: op, Args: args})
	}
}

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

// Calls returns a copy of the call log.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Count returns how many calls of op were made, logged or not.
func (r *Recorder) Count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[op]
}

// Total returns how many calls were made.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Data returns the current contents of a buffer.
func (r *Recorder) Data(buf Buffer) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buffers[buf.ID]
	return b, ok
}

// Layout returns the layout a vertex buffer was configured with.
func (r *Recorder) Layout(buf Buffer) (Layout, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.layouts[buf.ID]
	return l, ok
}

// Uniform returns the last value set for a matrix uniform.
func (r *Recorder) Uniform(name string) ([16]float32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.uniforms[name]
	return m, ok
}

func (r *Recorder) Compile(stage Stage, source string) (Shader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if source == "" {
		return 0, fmt.Errorf("compile %s shader: %w", stage, ErrEmptySource)
	}
	s := Shader(r.id())
	r.record("compile", stage, s)
	return s, nil
}

func (r *Recorder) Link(shaders ...Shader) (Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &recordedProgram{r: r, id: r.id()}
	r.record("link", p.id, len(shaders))
	return p, nil
}

func (r *Recorder) Upload(kind BufferKind, data []byte, usage Usage) (Buffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := Buffer{ID: r.id(), Kind: kind, Size: len(data)}
	r.buffers[b.ID] = append([]byte(nil), data...)
	r.record("upload", kind, b.ID, len(data), usage)
	return b, nil
}

func (r *Recorder) Update(buf Buffer, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.buffers[buf.ID]; !ok {
		return fmt.Errorf("update %d: %w", buf.ID, ErrUnknownBuffer)
	}
	r.buffers[buf.ID] = append(r.buffers[buf.ID][:0], data...)
	r.record("update", buf.ID, len(data))
	return nil
}

func (r *Recorder) Bind(buf Buffer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("bind", buf.Kind, buf.ID)
}

func (r *Recorder) Configure(buf Buffer, layout Layout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.buffers[buf.ID]; !ok {
		return fmt.Errorf("configure %d: %w", buf.ID, ErrUnknownBuffer)
	}
	if err := layout.Validate(); err != nil {
		return err
	}
	r.layouts[buf.ID] = layout
	for _, a := range layout.Attributes {
		r.record("attribute", buf.ID, a.Slot, a.Components, a.Type, layout.Stride, a.Offset)
	}
	return nil
}

type recordedProgram struct {
	r  *Recorder
	id uint32
}

func (p *recordedProgram) Use() {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()
	p.r.record("use", p.id)
}

func (p *recordedProgram) SetMat4(name string, m [16]float32) error {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()
	p.r.uniforms[name] = m
	p.r.record("uniform", p.id, name)
	return nil
}
