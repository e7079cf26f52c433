package reporter

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Reporter creates counters, timers and gauges against a Backend.
// It qualifies every name with a prefix and merges global tags under call-site tags.
// A Reporter is safe for concurrent use.
type Reporter struct {
	backend    Backend
	prefix     string
	globalTags Tags
	registry   *Registry
	logger     zerolog.Logger
	clock      clock.Clock
	keying     GaugeKeying
}

// New constructs a Reporter over backend.
// Unless WithRegistry is given, the Reporter owns a fresh, empty Registry.
func New(backend Backend, opts ...Option) (*Reporter, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	cfg := &config{logger: zerolog.Nop()}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	if cfg.registry == nil {
		cfg.registry = NewRegistry()
	}
	if cfg.clock == nil {
		cfg.clock = clock.New()
	}
	switch cfg.keying {
	case KeyByName, KeyByNameAndTags:
	default:
		return nil, errors.Wrapf(ErrInvalidArgument, "gauge keying %d", cfg.keying)
	}
	return &Reporter{
		backend:    backend,
		prefix:     cfg.prefix,
		globalTags: cfg.globalTags,
		registry:   cfg.registry,
		logger:     cfg.logger.With().Str("component", "reporter").Logger(),
		clock:      cfg.clock,
		keying:     cfg.keying,
	}, nil
}

// Prefix returns the name prefix.
func (r *Reporter) Prefix() string { return r.prefix }

// GlobalTags returns the tags attached to every metric.
func (r *Reporter) GlobalTags() Tags { return r.globalTags }

// Registry returns the gauge registration table.
func (r *Reporter) Registry() *Registry { return r.registry }

func (r *Reporter) qualify(name string, tags Tags) (string, Tags) {
	return r.prefix + name, r.globalTags.Merge(tags)
}

// Counter registers a counter with the backend and returns its handle.
// Every call performs a fresh registration; backend errors are returned unchanged in cause.
func (r *Reporter) Counter(name string, tags Tags) (*Counter, error) {
	qname, eff := r.qualify(name, tags)
	h, err := r.backend.RegisterCounter(qname, eff)
	if err != nil {
		return nil, errors.Wrapf(err, "register counter %q", qname)
	}
	return &Counter{name: qname, tags: eff, handle: h}, nil
}

// CounterWith is Counter with plain map tags.
func (r *Reporter) CounterWith(name string, tags map[string]string) (*Counter, error) {
	return r.Counter(name, TagsFromMap(tags))
}

// Timer registers a timer with the backend and returns its handle.
// Every call performs a fresh registration; backend errors are returned unchanged in cause.
func (r *Reporter) Timer(name string, tags Tags) (*Timer, error) {
	qname, eff := r.qualify(name, tags)
	h, err := r.backend.RegisterTimer(qname, eff)
	if err != nil {
		return nil, errors.Wrapf(err, "register timer %q", qname)
	}
	return &Timer{name: qname, tags: eff, handle: h, clock: r.clock}, nil
}

// TimerWith is Timer with plain map tags.
func (r *Reporter) TimerWith(name string, tags map[string]string) (*Timer, error) {
	return r.Timer(name, TagsFromMap(tags))
}

// Gauge returns a handle bound to the single cell registered for the gauge identity.
// The first request for an identity creates a zero cell and registers it with the backend;
// later requests reuse it. Only that first registration waits on the registry guard, which
// honors ctx. A cell is stored only after the backend accepted it.
func (r *Reporter) Gauge(ctx context.Context, name string, tags Tags) (*Gauge, error) {
	qname, eff := r.qualify(name, tags)
	key := qname
	if r.keying == KeyByNameAndTags {
		key = qname + "\x00" + eff.identity()
	}

	reg, created, err := r.registry.Resolve(ctx, key, qname, eff, func(p *Registration) error {
		if err := r.backend.RegisterGauge(p.Name, p.Tags, p.Cell); err != nil {
			return errors.Wrapf(err, "register gauge %q", p.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch {
	case created:
		r.logger.Debug().Str("name", qname).Stringer("tags", eff).Msg("registered gauge")
	case !reg.Tags.Equal(eff):
		r.logger.Warn().
			Str("name", qname).
			Stringer("registered_tags", reg.Tags).
			Stringer("requested_tags", eff).
			Msg("gauge already registered with different tags; sharing the existing cell")
	}
	return &Gauge{name: reg.Name, tags: reg.Tags, cell: reg.Cell}, nil
}

// GaugeWith is Gauge with plain map tags.
func (r *Reporter) GaugeWith(ctx context.Context, name string, tags map[string]string) (*Gauge, error) {
	return r.Gauge(ctx, name, TagsFromMap(tags))
}
