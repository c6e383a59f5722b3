package gpu

// InputState is the polled input of one headless frame.
type InputState struct {
	Keys    map[Key]bool
	Buttons map[Button]bool
	X, Y    float64
}

// Script returns the input for a frame number. The cursor is absolute.
type Script func(frame int) InputState

// Headless is a Window without a display. It closes after a fixed number of
// frames and advances its clock by a constant step on every swap.
type Headless struct {
	frames int
	step   float64
	script Script

	frame int
	state InputState
}

// NewHeadless creates a window that runs frames frames of step seconds.
// script may be nil for no input.
func NewHeadless(frames int, step float64, script Script) *Headless {
	h := &Headless{frames: frames, step: step, script: script}
	h.poll()
	return h
}

func (h *Headless) poll() {
	if h.script == nil {
		return
	}
	h.state = h.script(h.frame)
}

func (h *Headless) ShouldClose() bool { return h.frame >= h.frames || h.state.Keys[KeyEscape] }

func (h *Headless) KeyPressed(k Key) bool { return h.state.Keys[k] }

func (h *Headless) ButtonPressed(b Button) bool { return h.state.Buttons[b] }

func (h *Headless) Cursor() (x, y float64) { return h.state.X, h.state.Y }

func (h *Headless) Time() float64 { return float64(h.frame) * h.step }

// Frame returns the number of swapped frames.
func (h *Headless) Frame() int { return h.frame }

func (h *Headless) SwapBuffers() {
	h.frame++
	h.poll()
}
