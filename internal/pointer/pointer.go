// Package pointer moves and clicks the operating system's mouse pointer.
package pointer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-vgo/robotgo"
)

// ErrUnavailable is returned when no usable display is attached.
var ErrUnavailable = errors.New("pointer unavailable")

// Pointer drives a screen pointer in pixel coordinates.
type Pointer interface {
	MoveTo(x, y int) error
	Click(x, y int) error
	ScreenSize() (w, h int, err error)
}

// OS input calls; replaced in tests.
var (
	robotMove  = func(x, y int) { robotgo.Move(x, y) }
	robotClick = func() { robotgo.Click("left") }
)

// Robot is a Pointer backed by robotgo.
type Robot struct {
	once   sync.Once
	width  int
	height int
}

// NewRobot creates a Robot. A positive width and height override the size
// reported by the display.
func NewRobot(width, height int) *Robot {
	r := &Robot{}
	if width > 0 && height > 0 {
		r.width, r.height = width, height
		r.once.Do(func() {})
	}
	return r
}

// ScreenSize returns the main display size in pixels.
func (r *Robot) ScreenSize() (int, int, error) {
	r.once.Do(func() {
		r.width, r.height = robotgo.GetScreenSize()
	})
	if r.width <= 0 || r.height <= 0 {
		return 0, 0, fmt.Errorf("%w: screen size %dx%d", ErrUnavailable, r.width, r.height)
	}
	return r.width, r.height, nil
}

// MoveTo moves the pointer to (x, y).
func (r *Robot) MoveTo(x, y int) error {
	if _, _, err := r.ScreenSize(); err != nil {
		return err
	}
	robotMove(x, y)
	return nil
}

// Click presses the left button where the pointer is. Callers move to
// (x, y) first.
func (r *Robot) Click(x, y int) error {
	if _, _, err := r.ScreenSize(); err != nil {
		return err
	}
	robotClick()
	return nil
}
