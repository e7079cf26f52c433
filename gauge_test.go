package reporter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newTestGauge(t *testing.T, name string) *Gauge {
	t.Helper()
	r, err := New(NewBasicBackend())
	require.NoError(t, err)
	g, err := r.Gauge(context.Background(), name, Tags{})
	require.NoError(t, err)
	return g
}

func TestGauge_IncrementDecrement(t *testing.T) {
	g := newTestGauge(t, "g")
	g.Increment()
	g.Increment()
	g.Decrement()
	g.IncrementN(10)
	g.DecrementN(4)
	assert.EqualValues(t, 7, g.Value())

	// no bounds checking
	g.DecrementN(20)
	assert.EqualValues(t, -13, g.Value())
	g.IncrementN(-1)
	assert.EqualValues(t, -14, g.Value())
}

func TestGauge_ConcurrentMutations(t *testing.T) {
	g := newTestGauge(t, "g")
	const workers, perWorker = 50, 200

	var eg errgroup.Group
	for i := 0; i < workers; i++ {
		i := i
		eg.Go(func() error {
			for j := 0; j < perWorker; j++ {
				if i%2 == 0 {
					g.IncrementN(2)
				} else {
					g.Decrement()
				}
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	assert.EqualValues(t, (workers/2)*perWorker*2-(workers/2)*perWorker, g.Value())
}

func TestGauge_Surround(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		action  func(ctx context.Context) error
		ctx     func() (context.Context, context.CancelFunc)
		wantErr error
	}{
		{
			name:   "success",
			action: func(context.Context) error { return nil },
		},
		{
			name:    "failure",
			action:  func(context.Context) error { return boom },
			wantErr: boom,
		},
		{
			name: "cancelled",
			action: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 10*time.Millisecond)
			},
			wantErr: context.DeadlineExceeded,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGauge(t, "inflight")
			g.IncrementN(3)

			ctx, cancel := context.Background(), context.CancelFunc(func() {})
			if tt.ctx != nil {
				ctx, cancel = tt.ctx()
			}
			defer cancel()

			var during int64
			err := g.Surround(ctx, func(ctx context.Context) error {
				during = g.Value()
				return tt.action(ctx)
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.EqualValues(t, 4, during)
			assert.EqualValues(t, 3, g.Value())
		})
	}
}

func TestGauge_SurroundPanic(t *testing.T) {
	g := newTestGauge(t, "inflight")

	func() {
		defer func() {
			r := recover()
			assert.Equal(t, "kaboom", r)
		}()
		_ = g.Surround(context.Background(), func(context.Context) error {
			assert.EqualValues(t, 1, g.Value())
			panic("kaboom")
		})
	}()
	assert.Zero(t, g.Value())
}

func TestGauge_SurroundConcurrent(t *testing.T) {
	g := newTestGauge(t, "inflight")
	const n = 32
	release := make(chan struct{})
	started := make(chan struct{}, n)

	var eg errgroup.Group
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			return g.Surround(context.Background(), func(context.Context) error {
				started <- struct{}{}
				<-release
				return nil
			})
		})
	}
	for i := 0; i < n; i++ {
		<-started
	}
	assert.EqualValues(t, n, g.Value())
	close(release)
	require.NoError(t, eg.Wait())
	assert.Zero(t, g.Value())
}

func TestSurroundValue(t *testing.T) {
	g := newTestGauge(t, "inflight")

	v, err := SurroundValue(context.Background(), g, func(context.Context) (string, error) {
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", v)

	boom := errors.New("boom")
	_, err = SurroundValue(context.Background(), g, func(context.Context) (int, error) {
		assert.EqualValues(t, 1, g.Value())
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, g.Value())
}
