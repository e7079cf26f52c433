package reporter

import "sync/atomic"

// Cell is the shared integer a gauge reads from and writes to.
// All methods are safe for concurrent use.
type Cell struct {
	val atomic.Int64
}

// Add adds n (positive or negative) and returns the new value.
func (c *Cell) Add(n int64) int64 { return c.val.Add(n) }

// Value returns the current value.
func (c *Cell) Value() int64 { return c.val.Load() }
