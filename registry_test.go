package reporter

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestRegistry_ResolveCreatesOnce(t *testing.T) {
	r := NewRegistry()
	var calls atomic.Int32
	register := func(*Registration) error {
		calls.Add(1)
		return nil
	}

	first, created, err := r.Resolve(context.Background(), "k", "k", Tags{}, register)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Zero(t, first.Cell.Value())

	second, created, err := r.Resolve(context.Background(), "k", "k", Tags{}, register)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, first.Cell, second.Cell)
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ConcurrentResolve(t *testing.T) {
	r := NewRegistry()
	var calls atomic.Int32
	const n = 128
	cells := make([]*Cell, n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			reg, _, err := r.Resolve(context.Background(), "shared", "shared", Tags{}, func(*Registration) error {
				calls.Add(1)
				// widen the window for racing requesters
				time.Sleep(time.Millisecond)
				return nil
			})
			if err != nil {
				return err
			}
			cells[i] = reg.Cell
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, calls.Load())
	for i := 1; i < n; i++ {
		require.Same(t, cells[0], cells[i])
	}
}

func TestRegistry_FailedRegistrationIsNotStored(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")

	_, _, err := r.Resolve(context.Background(), "k", "k", Tags{}, func(*Registration) error { return boom })
	require.ErrorIs(t, err, boom)
	_, ok := r.Lookup("k")
	assert.False(t, ok)
	assert.Zero(t, r.Len())

	// a later request retries the registration
	reg, created, err := r.Resolve(context.Background(), "k", "k", Tags{}, func(*Registration) error { return nil })
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotNil(t, reg.Cell)
}

func TestRegistry_CancelledWhileWaiting(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.guard.Acquire(context.Background(), 1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	called := false
	_, _, err := r.Resolve(ctx, "k", "k", Tags{}, func(*Registration) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)

	r.guard.Release(1)
	assert.Zero(t, r.Len())
	assert.Empty(t, r.Keys())
}

func TestRegistry_AlreadyCancelledContext(t *testing.T) {
	r := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := r.Resolve(ctx, "k", "k", Tags{}, func(*Registration) error {
		t.Fatal("register must not run on a cancelled context")
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, r.Len())
}

func TestRegistry_ExistingEntryIgnoresCancellation(t *testing.T) {
	r := NewRegistry()
	first, _, err := r.Resolve(context.Background(), "k", "k", Tags{}, func(*Registration) error { return nil })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, created, err := r.Resolve(ctx, "k", "k", Tags{}, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, first, got)
}

func TestRegistry_Keys(t *testing.T) {
	r := NewRegistry()
	for _, k := range []string{"b", "a", "c"} {
		_, _, err := r.Resolve(context.Background(), k, k, Tags{}, func(*Registration) error { return nil })
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b", "c"}, r.Keys())
}
