// Package app runs the gesture poll loop: read a frame, find hands, classify
// each pose and dispatch the resulting pointer intent.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/gesture"
)

// DefaultInterval is the poll period.
const DefaultInterval = 30 * time.Millisecond

// ErrRunning is returned by Start when the loop is already running.
var ErrRunning = errors.New("poll loop already running")

// Sink is the action sink the loop dispatches into. It also reports the
// screen the pointer lives on.
type Sink interface {
	dispatch.ActionSink
	ScreenSize() (dispatch.Size, error)
}

// Config holds poll loop options.
type Config struct {
	Interval        time.Duration
	MotionGate      bool
	MotionThreshold float64
	ClickMode       gesture.ClickMode
	EvaluateControl string
	// Enabled is the initial state of the enable flag.
	Enabled bool
	// Meter records loop metrics. Nil uses the global meter provider.
	Meter metric.Meter
}

// App owns the camera and detector and drives the poll loop.
type App struct {
	config     Config
	camera     capture.Camera
	detector   detector.Detector
	dispatcher *dispatch.Dispatcher
	sink       Sink
	gate       *capture.MotionGate
	metrics    *metrics
	log        zerolog.Logger

	// tickMu serializes ticks.
	tickMu  sync.Mutex
	filters []gesture.Filter
	seq     uint64

	mu        sync.RWMutex
	enabled   bool
	cancel    context.CancelFunc
	done      chan struct{}
	onTick    []func(TickReport)
	onFrame   []func([]byte)
	onEnabled []func(bool)
	wantFrame func() bool

	stats *stats
}

// New creates an App. The camera is opened by Start; detector and camera are
// released by Stop.
func New(config Config, camera capture.Camera, det detector.Detector, sink Sink, log zerolog.Logger) (*App, error) {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.ClickMode == "" {
		config.ClickMode = gesture.ClickRepeat
	}

	m, err := newMetrics(config.Meter)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:     config,
		camera:     camera,
		detector:   det,
		dispatcher: dispatch.New(sink, config.EvaluateControl),
		sink:       sink,
		metrics:    m,
		log:        log.With().Str("component", "app").Logger(),
		enabled:    config.Enabled,
		stats:      newStats(),
	}
	if config.MotionGate {
		a.gate = capture.NewMotionGate(config.MotionThreshold)
	}
	return a, nil
}

// SetEnabled turns gesture control on or off. Disabled ticks do nothing.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	listeners := append([]func(bool)(nil), a.onEnabled...)
	a.mu.Unlock()

	if !changed {
		return
	}
	a.log.Info().Bool("enabled", enabled).Msg("gesture control toggled")
	for _, fn := range listeners {
		fn(enabled)
	}
}

// IsEnabled reports whether gesture control is on.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnTick registers fn to receive every tick report.
func (a *App) OnTick(fn func(TickReport)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onTick = append(a.onTick, fn)
}

// OnFrame registers fn to receive each processed frame as JPEG.
func (a *App) OnFrame(fn func([]byte)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onFrame = append(a.onFrame, fn)
}

// SetFrameDemand makes frame publishing conditional on fn, so frames are
// only encoded while someone is watching.
func (a *App) SetFrameDemand(fn func() bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.wantFrame = fn
}

// OnEnabledChange registers fn to run whenever the enable flag flips.
func (a *App) OnEnabledChange(fn func(bool)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEnabled = append(a.onEnabled, fn)
}

// Stats returns counters accumulated since the App was created.
func (a *App) Stats() Stats {
	return a.stats.snapshot()
}

// EvaluateControl returns the control triggered after each click.
func (a *App) EvaluateControl() string {
	return a.dispatcher.EvaluateControl()
}

// Start opens the camera and runs the poll loop in the background until ctx
// is cancelled or Stop is called.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.done != nil {
		return ErrRunning
	}
	if err := a.camera.Open(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		a.Run(ctx)
	}(a.done)

	a.log.Info().Dur("interval", a.config.Interval).Str("clickMode", string(a.config.ClickMode)).Msg("poll loop started")
	return nil
}

// Stop halts the poll loop, waits for the running tick to finish and releases
// the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	if err := a.camera.Close(); err != nil {
		a.log.Warn().Err(err).Msg("error closing camera")
	}
	if a.gate != nil {
		a.gate.Reset()
	}
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			a.log.Warn().Err(err).Msg("error closing detector")
		}
	}
	a.resetFilters(0)

	a.log.Info().Msg("poll loop stopped")
}

// Close stops the loop and frees the motion gate.
func (a *App) Close() {
	a.Stop()
	if a.gate != nil {
		a.gate.Close()
	}
}

// Run ticks every Interval until ctx is done. Ticks run on the calling
// goroutine, so a slow tick delays the next one instead of overlapping it.
func (a *App) Run(ctx context.Context) {
	ticker := time.NewTicker(a.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Tick(ctx)
		}
	}
}
