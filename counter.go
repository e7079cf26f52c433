package reporter

import "github.com/pkg/errors"

// Counter is a monotonic counter handle. It holds no state beyond the backend handle.
type Counter struct {
	name   string
	tags   Tags
	handle CounterHandle
}

// Name returns the qualified metric name.
func (c *Counter) Name() string { return c.name }

// Tags returns the effective tags.
func (c *Counter) Tags() Tags { return c.tags }

// Increment adds one.
func (c *Counter) Increment() error { return c.IncrementN(1) }

// IncrementN adds n. A negative n fails with ErrInvalidArgument without touching the backend.
func (c *Counter) IncrementN(n int64) error {
	if n < 0 {
		return errors.Wrapf(ErrInvalidArgument, "counter %q: negative increment %d", c.name, n)
	}
	c.handle.Add(float64(n))
	return nil
}
