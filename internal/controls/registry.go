// Package controls provides the table of named UI controls that gestures can activate.
package controls

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Evaluate is the control that runs the calculator's "=" action.
const Evaluate = "evaluate"

// ErrUnknownControl is returned when triggering a name with no registered handler.
var ErrUnknownControl = errors.New("unknown control")

// Handler performs the action behind a control.
type Handler func(ctx context.Context) error

// Registry maps control names to handlers. It is safe for concurrent use so
// the HTTP API can rebind controls while the poll loop triggers them.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register binds name to h, replacing any previous handler.
func (r *Registry) Register(name string, h Handler) {
	if name == "" || h == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Unregister removes the handler for name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, name)
}

// Replace swaps the whole table in one step.
func (r *Registry) Replace(handlers map[string]Handler) {
	next := make(map[string]Handler, len(handlers))
	for name, h := range handlers {
		if name != "" && h != nil {
			next[name] = h
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = next
}

// Names returns the registered control names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// Trigger runs the handler registered for name.
func (r *Registry) Trigger(ctx context.Context, name string) error {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownControl, name)
	}
	if err := h(ctx); err != nil {
		return fmt.Errorf("control %q: %w", name, err)
	}
	return nil
}
