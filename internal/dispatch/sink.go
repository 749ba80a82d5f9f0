package dispatch

import (
	"context"

	"github.com/ayusman/mudra/internal/pointer"
)

// Trigger activates named controls.
type Trigger interface {
	Trigger(ctx context.Context, name string) error
}

// Sink is an ActionSink that drives a pointer and a control table.
type Sink struct {
	Pointer  pointer.Pointer
	Controls Trigger
}

// NewSink joins p and t into an ActionSink.
func NewSink(p pointer.Pointer, t Trigger) *Sink {
	return &Sink{Pointer: p, Controls: t}
}

func (s *Sink) MoveTo(_ context.Context, p ScreenPoint) error {
	return s.Pointer.MoveTo(p.X, p.Y)
}

func (s *Sink) Click(_ context.Context, p ScreenPoint) error {
	return s.Pointer.Click(p.X, p.Y)
}

func (s *Sink) TriggerControl(ctx context.Context, name string) error {
	return s.Controls.Trigger(ctx, name)
}

// ScreenSize reports the pointer's screen.
func (s *Sink) ScreenSize() (Size, error) {
	w, h, err := s.Pointer.ScreenSize()
	return Size{W: w, H: h}, err
}
