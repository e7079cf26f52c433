package reporter

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// BasicBackend is a simple in-memory implementation of Backend.
// It is concurrency-safe and suitable for tests, examples, and lightweight apps.
//
// Counters and timers are created once per (type, name, tags) and reused when the same
// identity is registered again. Gauges are not deduplicated: registering an identity that
// already has a gauge fails with ErrAlreadyRegistered.
type BasicBackend struct {
	cfg    *basicBackendConfig
	logger zerolog.Logger

	counters sync.Map // map[InstrumentKey]*BasicCounter
	timers   sync.Map // map[InstrumentKey]*BasicTimer
	gauges   sync.Map // map[InstrumentKey]ValueSource
	meta     sync.Map // map[InstrumentKey]InstrumentEntry
	// per-key init mutexes: protect concurrent initialization for the same key
	inits sync.Map // map[InstrumentKey]*sync.Mutex
	// register calls per "type:name", successful or not
	calls sync.Map // map[string]*atomic.Int64

	violations atomic.Int32
}

// NewBasicBackend constructs a new BasicBackend.
// Accepts optional functional options to customize behavior.
func NewBasicBackend(opts ...BasicBackendOption) *BasicBackend {
	cfg := &basicBackendConfig{logger: zerolog.Nop()}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	return &BasicBackend{
		cfg:    cfg,
		logger: cfg.logger.With().Str("component", "basic_backend").Logger(),
	}
}

// keyMu returns a per-key mutex for the given key, creating one if necessary.
// The returned mutex is owned by the backend and should be locked/unlocked by callers.
func (b *BasicBackend) keyMu(key InstrumentKey) *sync.Mutex {
	m, _ := b.inits.LoadOrStore(key, &sync.Mutex{})
	return m.(*sync.Mutex)
}

func (b *BasicBackend) countCall(key InstrumentKey) {
	v, _ := b.calls.LoadOrStore(key.String(), &atomic.Int64{})
	v.(*atomic.Int64).Add(1)
}

// get retrieves an existing instrument by key.
func (b *BasicBackend) get(key InstrumentKey) (interface{}, bool) {
	switch key.Type {
	case InstrumentTypeCounter:
		if v, ok := b.counters.Load(key); ok {
			return v.(*BasicCounter), true
		}
	case InstrumentTypeTimer:
		if v, ok := b.timers.Load(key); ok {
			return v.(*BasicTimer), true
		}
	case InstrumentTypeGauge:
		if v, ok := b.gauges.Load(key); ok {
			return v.(ValueSource), true
		}
	}
	return nil, false
}

// RegisterCounter returns the counter for the identity, creating it on first registration.
func (b *BasicBackend) RegisterCounter(name string, tags Tags) (CounterHandle, error) {
	key := NewInstrumentKey(InstrumentTypeCounter, name, tags)
	b.countCall(key)
	v := b.getOrCreate(key, name, tags, func() interface{} {
		c := &BasicCounter{}
		b.counters.Store(key, c)
		return c
	})
	return v.(*BasicCounter), nil
}

// RegisterTimer returns the timer for the identity, creating it on first registration.
func (b *BasicBackend) RegisterTimer(name string, tags Tags) (TimerHandle, error) {
	key := NewInstrumentKey(InstrumentTypeTimer, name, tags)
	b.countCall(key)
	v := b.getOrCreate(key, name, tags, func() interface{} {
		t := &BasicTimer{}
		b.timers.Store(key, t)
		return t
	})
	return v.(*BasicTimer), nil
}

// RegisterGauge stores source under the identity. A second registration of the same
// identity fails with ErrAlreadyRegistered and leaves the first one in place.
func (b *BasicBackend) RegisterGauge(name string, tags Tags, source ValueSource) error {
	if source == nil {
		return errors.Wrapf(ErrInvalidArgument, "gauge %q: nil value source", name)
	}
	key := NewInstrumentKey(InstrumentTypeGauge, name, tags)
	b.countCall(key)

	km := b.keyMu(key)
	km.Lock()
	defer km.Unlock()

	if _, ok := b.get(key); ok {
		return errors.Wrapf(ErrAlreadyRegistered, "gauge %q {%s}", name, tags)
	}
	b.meta.Store(key, InstrumentEntry{Type: key.Type, Name: name, Tags: tags})
	b.gauges.Store(key, source)
	if !b.cfg.doNotCleanupInits {
		b.inits.Delete(key)
	}
	return nil
}

// getOrCreate implements a fast read path and uses a per-key mutex to deduplicate
// concurrent initializations.
//   - key identifies the instrument for both the per-key mutex and meta storage.
//   - create must store the new instance into the appropriate map and return it.
func (b *BasicBackend) getOrCreate(key InstrumentKey, name string, tags Tags, create func() interface{}) interface{} {
	// fast read path using sync.Map loads (safe without a global lock)
	if v, ok := b.get(key); ok {
		return v
	}

	km := b.keyMu(key)
	km.Lock()
	defer km.Unlock()

	// re-check after acquiring per-key mutex
	if v, ok := b.get(key); ok {
		return v
	}
	b.meta.Store(key, InstrumentEntry{Type: key.Type, Name: name, Tags: tags})
	inst := create()
	// It's safe to delete while holding the mutex; goroutines that already hold the
	// pointer keep using it and new callers get a new mutex.
	if !b.cfg.doNotCleanupInits {
		b.inits.Delete(key)
	}
	return inst
}

// reportInvariantViolation reports unexpected internal states such as
// "instrument exists but meta missing". In release builds it logs up to 10 times;
// in debug builds (or under race detector) it panics to catch bugs early.
func (b *BasicBackend) reportInvariantViolation(kind string, key InstrumentKey) {
	const maxReports = 10
	if b.violations.Add(1) > maxReports {
		return
	}

	msg := "invariant violation: " + kind + " for " + key.String()

	if isDebugBuild() {
		panic("[reporter] " + msg)
	}

	b.logger.Warn().Str("kind", kind).Str("key", key.String()).Msg(msg)
}

// isDebugBuild reports whether we're in a "debug" or "race" build.
func isDebugBuild() bool {
	return raceBuild || debugBuild
}
