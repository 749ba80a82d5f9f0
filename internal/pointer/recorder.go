package pointer

import (
	"fmt"
	"sync"
)

// Call is one recorded pointer operation.
type Call struct {
	Op   string // "move" or "click"
	X, Y int
}

func (c Call) String() string {
	return fmt.Sprintf("%s(%d,%d)", c.Op, c.X, c.Y)
}

// Recorder is an in-memory Pointer for tests and headless runs.
type Recorder struct {
	mu     sync.Mutex
	calls  []Call
	width  int
	height int

	// FailOn makes the named op ("move" or "click") return Err.
	FailOn string
	Err    error
}

// NewRecorder creates a Recorder reporting a w×h screen.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{width: w, height: h}
}

func (r *Recorder) record(op string, x, y int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailOn == op {
		return r.Err
	}
	r.calls = append(r.calls, Call{Op: op, X: x, Y: y})
	return nil
}

// MoveTo records a move.
func (r *Recorder) MoveTo(x, y int) error { return r.record("move", x, y) }

// Click records a click.
func (r *Recorder) Click(x, y int) error { return r.record("click", x, y) }

// ScreenSize returns the configured size.
func (r *Recorder) ScreenSize() (int, int, error) {
	if r.width <= 0 || r.height <= 0 {
		return 0, 0, ErrUnavailable
	}
	return r.width, r.height, nil
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Reset clears the recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
