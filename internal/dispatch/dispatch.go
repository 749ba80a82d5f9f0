// Package dispatch turns a classified intent into pointer and control actions.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ayusman/mudra/internal/controls"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

var (
	// ErrActionSink wraps any failure reported by the action sink.
	ErrActionSink = errors.New("action sink failed")

	// ErrUnknownControl is returned when the sink has no control of the
	// requested name.
	ErrUnknownControl = controls.ErrUnknownControl
)

// ScreenPoint is a position in integer pixels.
type ScreenPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a width and height in pixels.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool { return s.W > 0 && s.H > 0 }

// MapToScreen scales a normalized fingertip to pixels in size, rounding to
// the nearest pixel and clamping into [0, W-1] × [0, H-1].
func MapToScreen(p detector.Point3D, size Size) ScreenPoint {
	return ScreenPoint{
		X: scale(p.X, size.W),
		Y: scale(p.Y, size.H),
	}
}

func scale(v float64, extent int) int {
	if extent <= 0 || math.IsNaN(v) {
		return 0
	}
	// Clamp before converting: out-of-range float to int is undefined.
	f := math.Round(v * float64(extent))
	if f <= 0 {
		return 0
	}
	if f >= float64(extent-1) {
		return extent - 1
	}
	return int(f)
}

// Action is what a dispatch did.
type Action int

const (
	NoAction Action = iota
	Moved
	Clicked
)

func (a Action) String() string {
	switch a {
	case Moved:
		return "moved"
	case Clicked:
		return "clicked"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Result describes one dispatched intent.
type Result struct {
	Action     Action      `json:"action"`
	Point      ScreenPoint `json:"point"`
	FramePoint ScreenPoint `json:"framePoint"`
}

// ActionSink performs pointer and control actions.
type ActionSink interface {
	MoveTo(ctx context.Context, p ScreenPoint) error
	Click(ctx context.Context, p ScreenPoint) error
	TriggerControl(ctx context.Context, name string) error
}

// Dispatcher routes intents to an ActionSink.
type Dispatcher struct {
	sink            ActionSink
	evaluateControl string
}

// New creates a Dispatcher. An empty evaluateControl selects controls.Evaluate.
func New(sink ActionSink, evaluateControl string) *Dispatcher {
	if evaluateControl == "" {
		evaluateControl = controls.Evaluate
	}
	return &Dispatcher{sink: sink, evaluateControl: evaluateControl}
}

// EvaluateControl returns the control triggered after each click.
func (d *Dispatcher) EvaluateControl() string {
	return d.evaluateControl
}

// Dispatch performs intent at the screen position of fingertip.
//
// PointerMove moves the pointer. PointerClick moves, clicks, then triggers the
// evaluate control, in that order; a failing step stops the sequence. Idle
// does nothing.
func (d *Dispatcher) Dispatch(ctx context.Context, intent gesture.Intent, fingertip detector.Point3D, frame, screen Size) (Result, error) {
	res := Result{
		Point:      MapToScreen(fingertip, screen),
		FramePoint: MapToScreen(fingertip, frame),
	}

	switch intent {
	case gesture.PointerMove:
		if err := d.sink.MoveTo(ctx, res.Point); err != nil {
			return res, fmt.Errorf("%w: move: %w", ErrActionSink, err)
		}
		res.Action = Moved

	case gesture.PointerClick:
		if err := d.sink.MoveTo(ctx, res.Point); err != nil {
			return res, fmt.Errorf("%w: move: %w", ErrActionSink, err)
		}
		if err := d.sink.Click(ctx, res.Point); err != nil {
			return res, fmt.Errorf("%w: click: %w", ErrActionSink, err)
		}
		res.Action = Clicked
		if err := d.sink.TriggerControl(ctx, d.evaluateControl); err != nil {
			if errors.Is(err, ErrUnknownControl) {
				return res, err
			}
			return res, fmt.Errorf("%w: trigger %s: %w", ErrActionSink, d.evaluateControl, err)
		}
	}

	return res, nil
}
