package reporter

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// BasicCounter is a thread-safe monotonic counter.
type BasicCounter struct {
	bits atomic.Uint64 // float64 bits
}

// Add increments the counter by delta.
func (c *BasicCounter) Add(delta float64) {
	for {
		old := c.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if c.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

// Snapshot returns the current value.
func (c *BasicCounter) Snapshot() float64 { return math.Float64frombits(c.bits.Load()) }

// BasicTimer is a thread-safe timer that tracks count, sum, min, and max.
// It does not maintain buckets; it's intended as a lightweight, general-purpose aggregator.
type BasicTimer struct {
	mu    sync.Mutex
	count int64
	sum   time.Duration
	min   time.Duration
	max   time.Duration
}

// Record adds a measurement to the timer.
func (t *BasicTimer) Record(d time.Duration) {
	t.mu.Lock()
	if t.count == 0 {
		// initialize min/max on first record
		t.min, t.max = d, d
	} else {
		if d < t.min {
			t.min = d
		}
		if d > t.max {
			t.max = d
		}
	}
	t.count++
	t.sum += d
	t.mu.Unlock()
}

// TimerSnapshot is an immutable snapshot of a BasicTimer.
type TimerSnapshot struct {
	Count int64
	Sum   time.Duration
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
}

// Snapshot returns a copy of the timer state at the time of call.
func (t *BasicTimer) Snapshot() TimerSnapshot {
	t.mu.Lock()
	count := t.count
	sum := t.sum
	minV := t.min
	maxV := t.max
	t.mu.Unlock()
	var mean time.Duration
	if count > 0 {
		mean = sum / time.Duration(count)
	}
	return TimerSnapshot{Count: count, Sum: sum, Min: minV, Max: maxV, Mean: mean}
}
