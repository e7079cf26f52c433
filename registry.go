package reporter

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// Registration is a gauge cell stored in a Registry together with the identity it was
// registered with.
type Registration struct {
	Key  string
	Name string
	Tags Tags
	Cell *Cell
}

// Registry is the gauge registration table: it maps a registration key to the single
// Cell registered with the backend for it. Entries are added lazily and never removed.
//
// A Registry is safe for concurrent use. Several Reporters may share one Registry
// (see WithRegistry) as long as they also share the backend.
type Registry struct {
	entries sync.Map // map[string]*Registration
	// guard serializes check-or-create-and-store; a weighted semaphore of size 1 so that
	// waiting for it honors context cancellation.
	guard *semaphore.Weighted
	size  int // protected by guard
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{guard: semaphore.NewWeighted(1)}
}

// Resolve returns the registration stored for key, creating it when absent.
//
// On the slow path the guard is acquired with ctx, the table is re-checked, a zero-valued
// Cell is created and register is called with the pending registration. The entry is stored
// only if register succeeds; its error is returned unchanged otherwise. created reports
// whether this call created the entry.
//
// If ctx is done before the guard is acquired, nothing is created or registered and the
// context error is returned.
func (r *Registry) Resolve(
	ctx context.Context,
	key, name string,
	tags Tags,
	register func(*Registration) error,
) (reg *Registration, created bool, err error) {
	// fast read path, no guard needed for lookups
	if v, ok := r.entries.Load(key); ok {
		return v.(*Registration), false, nil
	}

	if err := r.guard.Acquire(ctx, 1); err != nil {
		return nil, false, errors.Wrapf(err, "waiting for gauge registration of %q", name)
	}
	defer r.guard.Release(1)

	// Acquire may succeed on an already-cancelled context.
	if err := ctx.Err(); err != nil {
		return nil, false, errors.Wrapf(err, "waiting for gauge registration of %q", name)
	}

	// re-check under the guard
	if v, ok := r.entries.Load(key); ok {
		return v.(*Registration), false, nil
	}

	pending := &Registration{Key: key, Name: name, Tags: tags, Cell: &Cell{}}
	if err := register(pending); err != nil {
		return nil, false, err
	}
	r.entries.Store(key, pending)
	r.size++
	return pending, true, nil
}

// Lookup returns the registration stored for key, if any.
func (r *Registry) Lookup(key string) (*Registration, bool) {
	v, ok := r.entries.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*Registration), true
}

// Len returns the number of registrations. It waits for any in-flight registration.
func (r *Registry) Len() int {
	// Acquire with Background never fails.
	_ = r.guard.Acquire(context.Background(), 1)
	defer r.guard.Release(1)
	return r.size
}

// Keys returns the sorted registration keys.
func (r *Registry) Keys() []string {
	var keys []string
	r.entries.Range(func(k, _ interface{}) bool {
		keys = append(keys, k.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}
