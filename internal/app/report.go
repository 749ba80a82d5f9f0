package app

import (
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/gesture"
)

// Reasons a tick ended before dispatching.
const (
	SkipDisabled = "disabled"
	SkipNoFrame  = "no_frame"
	SkipStill    = "still"
	SkipDetect   = "detect_failed"
	SkipNoHands  = "no_hands"
	SkipScreen   = "no_screen"
)

// HandReport is the outcome for one detected hand.
type HandReport struct {
	Index      int                 `json:"index"`
	Handedness string              `json:"handedness,omitempty"`
	Fingers    gesture.FingerState `json:"fingers"`
	Intent     gesture.Intent      `json:"intent"`
	Result     dispatch.Result     `json:"result"`
	Error      string              `json:"error,omitempty"`
}

// TickReport summarizes one poll tick.
type TickReport struct {
	Seq      uint64        `json:"seq"`
	Time     time.Time     `json:"time"`
	Duration time.Duration `json:"duration"`
	Skipped  string        `json:"skipped,omitempty"`
	Frame    dispatch.Size `json:"frame"`
	Screen   dispatch.Size `json:"screen"`
	Hands    []HandReport  `json:"hands"`
}

// Errors counts the hands whose classification or dispatch failed.
func (r TickReport) Errors() int {
	n := 0
	for _, h := range r.Hands {
		if h.Error != "" {
			n++
		}
	}
	return n
}

// Stats are cumulative loop counters.
type Stats struct {
	Ticks   uint64            `json:"ticks"`
	Skipped map[string]uint64 `json:"skipped"`
	Intents map[string]uint64 `json:"intents"`
	Errors  map[string]uint64 `json:"errors"`
	Last    *TickReport       `json:"last,omitempty"`
}

type stats struct {
	mu sync.Mutex
	s  Stats
}

func newStats() *stats {
	return &stats{s: Stats{
		Skipped: make(map[string]uint64),
		Intents: make(map[string]uint64),
		Errors:  make(map[string]uint64),
	}}
}

func (st *stats) record(r TickReport, intents []gesture.Intent, errs map[string]int) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.s.Ticks++
	if r.Skipped != "" {
		st.s.Skipped[r.Skipped]++
	}
	for _, i := range intents {
		st.s.Intents[i.String()]++
	}
	for kind, n := range errs {
		st.s.Errors[kind] += uint64(n)
	}
	last := r
	st.s.Last = &last
}

func copyCounts(m map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (st *stats) snapshot() Stats {
	st.mu.Lock()
	defer st.mu.Unlock()

	out := Stats{
		Ticks:   st.s.Ticks,
		Skipped: copyCounts(st.s.Skipped),
		Intents: copyCounts(st.s.Intents),
		Errors:  copyCounts(st.s.Errors),
	}
	if st.s.Last != nil {
		last := *st.s.Last
		last.Hands = append([]HandReport(nil), last.Hands...)
		out.Last = &last
	}
	return out
}
