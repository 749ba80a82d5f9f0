package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/controls"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/pointer"
)

// eventSink records every sink call as a string, in order.
type eventSink struct {
	events  []string
	failOn  string
	err     error
	unknown bool
}

func (s *eventSink) do(event string) error {
	if s.failOn != "" && len(event) >= len(s.failOn) && event[:len(s.failOn)] == s.failOn {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *eventSink) MoveTo(_ context.Context, p ScreenPoint) error {
	return s.do(fmt.Sprintf("move(%d,%d)", p.X, p.Y))
}

func (s *eventSink) Click(_ context.Context, p ScreenPoint) error {
	return s.do(fmt.Sprintf("click(%d,%d)", p.X, p.Y))
}

func (s *eventSink) TriggerControl(_ context.Context, name string) error {
	if s.unknown {
		return fmt.Errorf("%w: %q", ErrUnknownControl, name)
	}
	return s.do("trigger(" + name + ")")
}

var (
	frame  = Size{W: 640, H: 480}
	screen = Size{W: 1000, H: 800}
	center = detector.Point3D{X: 0.5, Y: 0.5}
)

func TestMapToScreen(t *testing.T) {
	tests := []struct {
		name string
		p    detector.Point3D
		size Size
		want ScreenPoint
	}{
		{"center", center, screen, ScreenPoint{500, 400}},
		{"origin", detector.Point3D{X: 0, Y: 0}, screen, ScreenPoint{0, 0}},
		{"right bottom edge clamps", detector.Point3D{X: 1, Y: 1}, screen, ScreenPoint{999, 799}},
		{"overshoot clamps", detector.Point3D{X: 1.4, Y: -0.2}, screen, ScreenPoint{999, 0}},
		{"rounds to nearest", detector.Point3D{X: 0.1237, Y: 0.0006}, screen, ScreenPoint{124, 0}},
		{"zero size", center, Size{}, ScreenPoint{0, 0}},
		{"huge coordinate clamps high", detector.Point3D{X: 1e19, Y: 1e19}, screen, ScreenPoint{999, 799}},
		{"huge negative clamps low", detector.Point3D{X: -1e19, Y: -1e19}, screen, ScreenPoint{0, 0}},
		{"infinity clamps", detector.Point3D{X: math.Inf(1), Y: math.Inf(-1)}, screen, ScreenPoint{999, 0}},
		{"nan maps to origin", detector.Point3D{X: math.NaN(), Y: math.NaN()}, screen, ScreenPoint{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapToScreen(tt.p, tt.size))
		})
	}
}

func TestMapToScreen_Monotonic(t *testing.T) {
	prev := MapToScreen(detector.Point3D{}, screen)
	for i := 1; i <= 100; i++ {
		v := float64(i) / 100
		got := MapToScreen(detector.Point3D{X: v, Y: v}, screen)
		assert.GreaterOrEqual(t, got.X, prev.X)
		assert.GreaterOrEqual(t, got.Y, prev.Y)
		prev = got
	}
}

func TestMapToScreen_MonotonicOutOfRange(t *testing.T) {
	values := []float64{math.Inf(-1), -1e19, -1, 0, 0.5, 1, 1e10, 1e19, math.Inf(1)}
	prev := MapToScreen(detector.Point3D{X: values[0]}, screen)
	for _, v := range values[1:] {
		got := MapToScreen(detector.Point3D{X: v}, screen)
		assert.GreaterOrEqual(t, got.X, prev.X, "x=%g", v)
		prev = got
	}
	assert.Equal(t, 999, prev.X)
}

func TestDispatch_Idle(t *testing.T) {
	sink := &eventSink{}
	res, err := New(sink, "").Dispatch(context.Background(), gesture.Idle, center, frame, screen)

	require.NoError(t, err)
	assert.Equal(t, NoAction, res.Action)
	assert.Empty(t, sink.events)
}

func TestDispatch_Move(t *testing.T) {
	sink := &eventSink{}
	res, err := New(sink, "").Dispatch(context.Background(), gesture.PointerMove, center, frame, screen)

	require.NoError(t, err)
	assert.Equal(t, Moved, res.Action)
	assert.Equal(t, ScreenPoint{500, 400}, res.Point)
	assert.Equal(t, ScreenPoint{320, 240}, res.FramePoint)
	assert.Equal(t, []string{"move(500,400)"}, sink.events)
}

func TestDispatch_ClickOrder(t *testing.T) {
	sink := &eventSink{}
	res, err := New(sink, "").Dispatch(context.Background(), gesture.PointerClick, center, frame, screen)

	require.NoError(t, err)
	assert.Equal(t, Clicked, res.Action)
	assert.Equal(t, []string{"move(500,400)", "click(500,400)", "trigger(evaluate)"}, sink.events)
}

func TestDispatch_CustomEvaluateControl(t *testing.T) {
	sink := &eventSink{}
	d := New(sink, "equals")
	_, err := d.Dispatch(context.Background(), gesture.PointerClick, center, frame, screen)

	require.NoError(t, err)
	assert.Equal(t, "equals", d.EvaluateControl())
	assert.Equal(t, "trigger(equals)", sink.events[2])
}

func TestDispatch_SinkFailureStopsSequence(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name       string
		failOn     string
		wantEvents []string
	}{
		{"move fails", "move", nil},
		{"click fails", "click", []string{"move(500,400)"}},
		{"trigger fails", "trigger", []string{"move(500,400)", "click(500,400)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &eventSink{failOn: tt.failOn, err: boom}
			_, err := New(sink, "").Dispatch(context.Background(), gesture.PointerClick, center, frame, screen)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrActionSink)
			assert.ErrorIs(t, err, boom)
			assert.Equal(t, tt.wantEvents, sink.events)
		})
	}
}

func TestDispatch_UnknownControl(t *testing.T) {
	sink := &eventSink{unknown: true}
	res, err := New(sink, "").Dispatch(context.Background(), gesture.PointerClick, center, frame, screen)

	assert.ErrorIs(t, err, ErrUnknownControl)
	assert.NotErrorIs(t, err, ErrActionSink)
	assert.Equal(t, Clicked, res.Action, "pointer actions still happened")
	assert.Equal(t, []string{"move(500,400)", "click(500,400)"}, sink.events)
}

func TestSink_PointerAndRegistry(t *testing.T) {
	rec := pointer.NewRecorder(1000, 800)
	reg := controls.NewRegistry()
	var triggered []string
	reg.Register(controls.Evaluate, func(ctx context.Context) error {
		triggered = append(triggered, fmt.Sprintf("after %d pointer calls", len(rec.Calls())))
		return nil
	})

	sink := NewSink(rec, reg)
	size, err := sink.ScreenSize()
	require.NoError(t, err)
	assert.Equal(t, screen, size)

	hand := detector.WithIndexTip(detector.TwoFingerHand(), 0.5, 0.5)
	intent, err := gesture.Classify(&hand)
	require.NoError(t, err)

	tip, err := hand.Landmark(detector.IndexTip)
	require.NoError(t, err)

	_, err = New(sink, "").Dispatch(context.Background(), intent, tip, frame, size)
	require.NoError(t, err)

	assert.Equal(t, []pointer.Call{{Op: "move", X: 500, Y: 400}, {Op: "click", X: 500, Y: 400}}, rec.Calls())
	assert.Equal(t, []string{"after 2 pointer calls"}, triggered)
}

func TestSink_EmptyRegistry(t *testing.T) {
	sink := NewSink(pointer.NewRecorder(100, 100), controls.NewRegistry())
	_, err := New(sink, "").Dispatch(context.Background(), gesture.PointerClick, center, frame, Size{100, 100})
	assert.ErrorIs(t, err, ErrUnknownControl)
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "none", NoAction.String())
	assert.Equal(t, "moved", Moved.String())
	assert.Equal(t, "clicked", Clicked.String())
}
