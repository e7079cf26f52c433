package reporter

import "time"

// NoopBackend accepts every registration and discards all measurements.
type NoopBackend struct{}

// NewNoopBackend returns a Backend that records nothing.
func NewNoopBackend() NoopBackend { return NoopBackend{} }

type noopCounter struct{}

func (noopCounter) Add(float64) {}

type noopTimer struct{}

func (noopTimer) Record(time.Duration) {}

func (NoopBackend) RegisterCounter(string, Tags) (CounterHandle, error) { return noopCounter{}, nil }

func (NoopBackend) RegisterTimer(string, Tags) (TimerHandle, error) { return noopTimer{}, nil }

func (NoopBackend) RegisterGauge(string, Tags, ValueSource) error { return nil }
