package app

import (
	"context"
	"errors"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/gesture"
)

// Error kinds recorded in metrics and Stats.
const (
	errRead     = "read"
	errDetect   = "detect"
	errScreen   = "screen"
	errClassify = "classify"
	errSink     = "sink"
	errControl  = "unknown_control"
)

// tickState collects one tick's outcome.
type tickState struct {
	report  TickReport
	intents []gesture.Intent
	errs    map[string]int
}

func (s *tickState) fail(kind string) {
	if s.errs == nil {
		s.errs = make(map[string]int)
	}
	s.errs[kind]++
}

// Tick runs one poll iteration: read a frame, detect hands, then classify and
// dispatch each hand in detector order. Every failure is local to the tick.
func (a *App) Tick(ctx context.Context) TickReport {
	a.tickMu.Lock()
	defer a.tickMu.Unlock()

	a.seq++
	start := time.Now()
	st := &tickState{report: TickReport{Seq: a.seq, Time: start}}

	a.runTick(ctx, st)

	st.report.Duration = time.Since(start)
	a.metrics.tick(ctx, st.report.Duration, st.report.Skipped)
	for _, i := range st.intents {
		a.metrics.intent(ctx, i.String())
	}
	for kind, n := range st.errs {
		for range n {
			a.metrics.error(ctx, kind)
		}
	}
	a.stats.record(st.report, st.intents, st.errs)
	a.publishTick(st.report)

	return st.report
}

func (a *App) runTick(ctx context.Context, st *tickState) {
	if !a.IsEnabled() {
		st.report.Skipped = SkipDisabled
		a.resetFilters(0)
		return
	}

	frame, err := a.camera.ReadFrame()
	if err != nil {
		a.log.Debug().Err(err).Msg("frame read failed")
		st.report.Skipped = SkipNoFrame
		st.fail(errRead)
		return
	}
	defer frame.Close()

	st.report.Frame = dispatch.Size{W: frame.Cols(), H: frame.Rows()}
	a.publishFrame(frame)

	if a.gate != nil && !a.gate.Moving(frame) {
		st.report.Skipped = SkipStill
		return
	}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		a.log.Warn().Err(err).Msg("hand detection failed")
		st.report.Skipped = SkipDetect
		st.fail(errDetect)
		return
	}
	a.resetFilters(len(hands))
	if len(hands) == 0 {
		st.report.Skipped = SkipNoHands
		return
	}

	screen, err := a.sink.ScreenSize()
	if err != nil {
		a.log.Warn().Err(err).Msg("screen size unavailable")
		st.report.Skipped = SkipScreen
		st.fail(errScreen)
		return
	}
	st.report.Screen = screen

	st.report.Hands = make([]HandReport, 0, len(hands))
	for i := range hands {
		st.report.Hands = append(st.report.Hands, a.handleHand(ctx, st, i, &hands[i], screen))
	}
}

func (a *App) handleHand(ctx context.Context, st *tickState, index int, hand *detector.Hand, screen dispatch.Size) HandReport {
	hr := HandReport{Index: index, Handedness: hand.Handedness}

	fingers, err := gesture.Fingers(hand)
	if err != nil {
		a.log.Warn().Err(err).Int("hand", index).Int("points", len(hand.Points)).Msg("hand skipped")
		hr.Error = err.Error()
		st.fail(errClassify)
		return hr
	}
	hr.Fingers = fingers
	hr.Intent = a.filter(index).Apply(fingers.Classify())
	st.intents = append(st.intents, hr.Intent)

	tip, _ := hand.Landmark(detector.IndexTip)
	hr.Result, err = a.dispatcher.Dispatch(ctx, hr.Intent, tip, st.report.Frame, screen)
	if err != nil {
		kind := errSink
		if errors.Is(err, dispatch.ErrUnknownControl) {
			kind = errControl
		}
		a.log.Warn().Err(err).Int("hand", index).Stringer("intent", hr.Intent).Msg("dispatch failed")
		hr.Error = err.Error()
		st.fail(kind)
		return hr
	}

	if hr.Result.Action != dispatch.NoAction {
		a.log.Trace().
			Int("hand", index).
			Stringer("intent", hr.Intent).
			Int("x", hr.Result.Point.X).
			Int("y", hr.Result.Point.Y).
			Msg("dispatched")
	}
	return hr
}

// filter returns the click filter for hand slot i.
func (a *App) filter(i int) gesture.Filter {
	for len(a.filters) <= i {
		a.filters = append(a.filters, gesture.NewFilter(a.config.ClickMode))
	}
	return a.filters[i]
}

// resetFilters re-arms the filters of hand slots from n upward.
func (a *App) resetFilters(n int) {
	for i := n; i < len(a.filters); i++ {
		a.filters[i].Reset()
	}
}

func (a *App) publishTick(r TickReport) {
	a.mu.RLock()
	fns := a.onTick
	a.mu.RUnlock()

	for _, fn := range fns {
		fn(r)
	}
}

func (a *App) publishFrame(frame *gocv.Mat) {
	a.mu.RLock()
	fns, want := a.onFrame, a.wantFrame
	a.mu.RUnlock()

	if len(fns) == 0 || (want != nil && !want()) {
		return
	}
	data, err := capture.EncodeJPEG(frame)
	if err != nil {
		a.log.Debug().Err(err).Msg("preview encode failed")
		return
	}
	for _, fn := range fns {
		fn(data)
	}
}
