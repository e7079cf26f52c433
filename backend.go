package reporter

import "time"

// Backend registers metric definitions and hands back live handles.
// It is the external collaborator behind a Reporter: it owns aggregation and export.
//
// Implementations must be safe for concurrent registrations of distinct identities.
// They are not required to deduplicate gauge registrations; the Reporter guarantees
// that a gauge identity is registered at most once.
type Backend interface {
	// RegisterCounter registers a monotonic counter and returns its handle.
	RegisterCounter(name string, tags Tags) (CounterHandle, error)
	// RegisterTimer registers a duration-recording metric and returns its handle.
	RegisterTimer(name string, tags Tags) (TimerHandle, error)
	// RegisterGauge registers a gauge whose value is sampled from source at export time.
	// The backend must never mutate source.
	RegisterGauge(name string, tags Tags, source ValueSource) error
}

// CounterHandle is the backend side of a counter.
// Methods must be safe for concurrent use.
type CounterHandle interface {
	Add(delta float64)
}

// TimerHandle is the backend side of a timer. Backends convert the duration to their own unit.
// Methods must be safe for concurrent use.
type TimerHandle interface {
	Record(d time.Duration)
}

// ValueSource is a live numeric cell a backend samples on demand.
type ValueSource interface {
	Value() int64
}

// InstrumentType names the kind of a registered instrument.
type InstrumentType string

const (
	InstrumentTypeCounter InstrumentType = "counter"
	InstrumentTypeTimer   InstrumentType = "timer"
	InstrumentTypeGauge   InstrumentType = "gauge"
)

func (t InstrumentType) String() string { return string(t) }
