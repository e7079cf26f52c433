package reporter

import (
	"context"
	"testing"
	"time"
)

func TestNoopBackend_Minimal(t *testing.T) {
	n := NewNoopBackend()

	c, err := n.RegisterCounter("x", Tags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(noopCounter); !ok {
		t.Fatalf("expected noopCounter type, got %T", c)
	}
	// should be no-op and not panic
	c.Add(123)

	tm, err := n.RegisterTimer("y", Tags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := tm.(noopTimer); !ok {
		t.Fatalf("expected noopTimer type, got %T", tm)
	}
	tm.Record(time.Second)

	if err := n.RegisterGauge("z", Tags{}, &Cell{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNoopBackend_GaugesStillTracked(t *testing.T) {
	r, err := New(NewNoopBackend())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g, err := r.Gauge(context.Background(), "g", Tags{})
	if err != nil {
		t.Fatalf("Gauge: %v", err)
	}
	g.IncrementN(4)
	if got := g.Value(); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
}
