package gesture

import (
	"fmt"
	"strings"
)

// ClickMode selects how a held click pose is treated across ticks.
type ClickMode string

const (
	// ClickRepeat clicks on every tick the click pose is seen.
	ClickRepeat ClickMode = "repeat"
	// ClickEdge clicks once per activation of the click pose.
	ClickEdge ClickMode = "edge"
)

// ParseClickMode parses a configured click mode. Empty means ClickRepeat.
func ParseClickMode(s string) (ClickMode, error) {
	switch ClickMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ClickRepeat:
		return ClickRepeat, nil
	case ClickEdge:
		return ClickEdge, nil
	default:
		return "", fmt.Errorf("unknown click mode %q", s)
	}
}

// Filter post-processes the intent stream of consecutive ticks.
type Filter interface {
	Apply(Intent) Intent
	Reset()
}

// NewFilter returns the filter for mode.
func NewFilter(mode ClickMode) Filter {
	if mode == ClickEdge {
		return &EdgeTrigger{}
	}
	return passThrough{}
}

type passThrough struct{}

func (passThrough) Apply(i Intent) Intent { return i }
func (passThrough) Reset()                {}

// EdgeTrigger lets a PointerClick through only on the tick it first appears.
// While the pose is held it is downgraded to PointerMove so the pointer keeps
// following the hand. Any other intent re-arms the trigger.
//
// EdgeTrigger is not safe for concurrent use; the poll loop owns it.
type EdgeTrigger struct {
	held bool
}

// Apply filters one tick's intent.
func (e *EdgeTrigger) Apply(i Intent) Intent {
	if i != PointerClick {
		e.held = false
		return i
	}
	if e.held {
		return PointerMove
	}
	e.held = true
	return PointerClick
}

// Reset re-arms the trigger.
func (e *EdgeTrigger) Reset() {
	e.held = false
}
