package reporter

import "context"

// Gauge is a handle on a shared gauge cell. Handles obtained for the same identity
// share one cell, so a change made through one is visible through all of them.
// Values are not bounded and may go negative.
type Gauge struct {
	name string
	tags Tags
	cell *Cell
}

// Name returns the qualified metric name the cell was registered with.
func (g *Gauge) Name() string { return g.name }

// Tags returns the tags the cell was registered with.
func (g *Gauge) Tags() Tags { return g.tags }

// Value returns the current value.
func (g *Gauge) Value() int64 { return g.cell.Value() }

// Increment adds one.
func (g *Gauge) Increment() { g.cell.Add(1) }

// Decrement subtracts one.
func (g *Gauge) Decrement() { g.cell.Add(-1) }

// IncrementN atomically adds n, which may be negative.
func (g *Gauge) IncrementN(n int64) { g.cell.Add(n) }

// DecrementN atomically subtracts n.
func (g *Gauge) DecrementN(n int64) { g.cell.Add(-n) }

// Surround increments the gauge, runs action and decrements the gauge again once action
// returns, fails, observes ctx cancellation or panics. It returns action's error.
//
// The decrement is an atomic add on a cell owned by the registry and cannot fail, so it
// never shadows action's outcome. A panic from action propagates after the decrement.
func (g *Gauge) Surround(ctx context.Context, action func(context.Context) error) error {
	g.Increment()
	defer g.Decrement()
	return action(ctx)
}

// SurroundValue is Surround for actions producing a value.
func SurroundValue[T any](ctx context.Context, g *Gauge, action func(context.Context) (T, error)) (T, error) {
	g.Increment()
	defer g.Decrement()
	return action(ctx)
}
