package controls

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Trigger(t *testing.T) {
	r := NewRegistry()
	var calls int
	r.Register(Evaluate, func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, r.Trigger(context.Background(), Evaluate))
	require.NoError(t, r.Trigger(context.Background(), Evaluate))
	assert.Equal(t, 2, calls)
}

func TestRegistry_UnknownControl(t *testing.T) {
	r := NewRegistry()

	err := r.Trigger(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownControl)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestRegistry_HandlerError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Register("clear", func(ctx context.Context) error { return boom })

	err := r.Trigger(context.Background(), "clear")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUnknownControl)
}

func TestRegistry_RegisterIgnoresEmpty(t *testing.T) {
	r := NewRegistry()
	r.Register("", func(ctx context.Context) error { return nil })
	r.Register("nil", nil)

	assert.Empty(t, r.Names())
}

func TestRegistry_NamesSortedAndUnregister(t *testing.T) {
	r := NewRegistry()
	noop := func(ctx context.Context) error { return nil }
	r.Register(Evaluate, noop)
	r.Register("clear", noop)
	r.Register("backspace", noop)

	assert.Equal(t, []string{"backspace", "clear", Evaluate}, r.Names())

	r.Unregister("clear")
	assert.False(t, r.Has("clear"))
	assert.True(t, r.Has(Evaluate))
}

func TestRegistry_Replace(t *testing.T) {
	r := NewRegistry()
	noop := func(ctx context.Context) error { return nil }
	r.Register("old", noop)

	r.Replace(map[string]Handler{Evaluate: noop, "": noop})

	assert.Equal(t, []string{Evaluate}, r.Names())
}

func TestRegistry_ConcurrentTriggerAndReplace(t *testing.T) {
	r := NewRegistry()
	noop := func(ctx context.Context) error { return nil }
	r.Register(Evaluate, noop)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = r.Trigger(context.Background(), Evaluate)
				r.Replace(map[string]Handler{Evaluate: noop})
			}
		}()
	}
	wg.Wait()

	assert.True(t, r.Has(Evaluate))
}
