package reporter

import (
	"sort"
	"sync/atomic"
)

var _ Inspector = (*BasicBackend)(nil)

// lookup acquires the per-key init mutex, then reads both the instance and its
// metadata before unlocking in order to provide a consistent snapshot.
// Invariant violations (e.g., instrument exists but meta missing) are reported via logger.
func (b *BasicBackend) lookup(key InstrumentKey) (interface{}, bool) {
	km := b.keyMu(key)
	km.Lock()
	defer km.Unlock()

	v, ok := b.get(key)
	if !ok {
		// not created
		return nil, false
	}
	m, ok := b.meta.Load(key)
	if !ok {
		b.reportInvariantViolation(key.Type.String()+"_meta_missing", key)
		return nil, false
	}
	if _, ok := m.(InstrumentEntry); !ok {
		b.reportInvariantViolation(key.Type.String()+"_meta_type", key)
		return nil, false
	}
	return v, true
}

// CounterValue returns the current value of the counter registered under name and tags.
func (b *BasicBackend) CounterValue(name string, tags Tags) (float64, bool) {
	key := NewInstrumentKey(InstrumentTypeCounter, name, tags)
	v, ok := b.lookup(key)
	if !ok {
		return 0, false
	}
	c, ok := v.(*BasicCounter)
	if !ok {
		b.reportInvariantViolation("counter_type", key)
		return 0, false
	}
	return c.Snapshot(), true
}

// TimerSnapshot returns a snapshot of the timer registered under name and tags.
func (b *BasicBackend) TimerSnapshot(name string, tags Tags) (TimerSnapshot, bool) {
	key := NewInstrumentKey(InstrumentTypeTimer, name, tags)
	v, ok := b.lookup(key)
	if !ok {
		return TimerSnapshot{}, false
	}
	t, ok := v.(*BasicTimer)
	if !ok {
		b.reportInvariantViolation("timer_type", key)
		return TimerSnapshot{}, false
	}
	return t.Snapshot(), true
}

// GaugeValue samples the value source of the gauge registered under name and tags.
func (b *BasicBackend) GaugeValue(name string, tags Tags) (int64, bool) {
	key := NewInstrumentKey(InstrumentTypeGauge, name, tags)
	v, ok := b.lookup(key)
	if !ok {
		return 0, false
	}
	return v.(ValueSource).Value(), true
}

// RegistrationCount implements Inspector.RegistrationCount.
func (b *BasicBackend) RegistrationCount(t InstrumentType, name string) int {
	v, ok := b.calls.Load(InstrumentKey{Type: t, Name: name}.String())
	if !ok {
		return 0
	}
	return int(v.(*atomic.Int64).Load())
}

// List returns a snapshot of registered instruments sorted by type, name and tags.
// It does not acquire per-key init mutexes; the result may race with concurrent creations.
func (b *BasicBackend) List() []InstrumentEntry {
	out := make([]InstrumentEntry, 0)
	b.meta.Range(func(_, v interface{}) bool {
		e, ok := v.(InstrumentEntry)
		if !ok {
			return true // skip invalid entries
		}
		out = append(out, e)
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Tags.String() < out[j].Tags.String()
	})
	return out
}
