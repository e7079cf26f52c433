package reporter

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Timer records durations against a backend metric.
type Timer struct {
	name   string
	tags   Tags
	handle TimerHandle
	clock  clock.Clock
}

// Name returns the qualified metric name.
func (t *Timer) Name() string { return t.name }

// Tags returns the effective tags.
func (t *Timer) Tags() Tags { return t.tags }

// Record records d. The sign is not validated; negative durations are left to the backend.
func (t *Timer) Record(d time.Duration) { t.handle.Record(d) }

// Start starts a stopwatch on the reporter's clock.
func (t *Timer) Start() Stopwatch {
	return Stopwatch{timer: t, start: t.clock.Now()}
}

// Time runs fn and records how long it took, whether or not it failed.
func (t *Timer) Time(fn func() error) error {
	sw := t.Start()
	defer sw.Stop()
	return fn()
}

// Stopwatch measures one elapsed interval for a Timer.
type Stopwatch struct {
	timer *Timer
	start time.Time
}

// Stop records the time elapsed since Start and returns it.
func (s Stopwatch) Stop() time.Duration {
	d := s.timer.clock.Since(s.start)
	s.timer.Record(d)
	return d
}
