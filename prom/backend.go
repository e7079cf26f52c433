package prom

import (
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ygrebnov/reporter"
)

var _ reporter.Backend = (*Backend)(nil)

// Backend registers reporter metrics with a prometheus.Registerer.
type Backend struct {
	reg     prometheus.Registerer
	buckets []float64
	help    func(name string) string

	mu         sync.Mutex
	collectors []prometheus.Collector
}

// Option configures a Backend.
type Option func(*Backend)

// WithBuckets sets the histogram buckets, in seconds, used for timers.
func WithBuckets(buckets []float64) Option {
	return func(b *Backend) {
		if len(buckets) > 0 {
			b.buckets = buckets
		}
	}
}

// WithHelp sets how the help text is derived from a sanitized metric name.
func WithHelp(fn func(name string) string) Option {
	return func(b *Backend) {
		if fn != nil {
			b.help = fn
		}
	}
}

// New creates a Backend registering with reg. A nil reg means prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, opts ...Option) *Backend {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	b := &Backend{
		reg:     reg,
		buckets: prometheus.DefBuckets,
		help:    func(name string) string { return name },
	}
	for _, o := range opts {
		if o != nil {
			o(b)
		}
	}
	return b
}

type counter struct{ c prometheus.Counter }

func (c counter) Add(delta float64) { c.c.Add(delta) }

type timer struct{ o prometheus.Observer }

func (t timer) Record(d time.Duration) { t.o.Observe(d.Seconds()) }

// RegisterCounter registers a counter. Registering the same identity again returns the
// collector registered first.
func (b *Backend) RegisterCounter(name string, tags reporter.Tags) (reporter.CounterHandle, error) {
	n := SanitizeName(name)
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        n,
		Help:        b.help(n),
		ConstLabels: labels(tags),
	})
	got, err := b.register(c)
	if err != nil {
		return nil, err
	}
	existing, ok := got.(prometheus.Counter)
	if !ok {
		return nil, errors.Errorf("collector %q is a %T, not a counter", n, got)
	}
	return counter{c: existing}, nil
}

// RegisterTimer registers a histogram observed in seconds. Registering the same identity
// again returns the collector registered first.
func (b *Backend) RegisterTimer(name string, tags reporter.Tags) (reporter.TimerHandle, error) {
	n := SanitizeName(name)
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        n,
		Help:        b.help(n),
		ConstLabels: labels(tags),
		Buckets:     b.buckets,
	})
	got, err := b.register(h)
	if err != nil {
		return nil, err
	}
	existing, ok := got.(prometheus.Histogram)
	if !ok {
		return nil, errors.Errorf("collector %q is a %T, not a histogram", n, got)
	}
	return timer{o: existing}, nil
}

// RegisterGauge registers a GaugeFunc sampling source. Duplicate registrations fail.
func (b *Backend) RegisterGauge(name string, tags reporter.Tags, source reporter.ValueSource) error {
	if source == nil {
		return errors.Wrapf(reporter.ErrInvalidArgument, "gauge %q: nil value source", name)
	}
	n := SanitizeName(name)
	g := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        n,
		Help:        b.help(n),
		ConstLabels: labels(tags),
	}, func() float64 { return float64(source.Value()) })
	if err := b.reg.Register(g); err != nil {
		return err
	}
	b.track(g)
	return nil
}

// register registers c, falling back to the already registered collector of the same identity.
func (b *Backend) register(c prometheus.Collector) (prometheus.Collector, error) {
	if err := b.reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector, nil
		}
		return nil, err
	}
	b.track(c)
	return c, nil
}

func (b *Backend) track(c prometheus.Collector) {
	b.mu.Lock()
	b.collectors = append(b.collectors, c)
	b.mu.Unlock()
}

// Close unregisters every collector this Backend registered.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.collectors {
		b.reg.Unregister(c)
	}
	b.collectors = nil
	return nil
}

func labels(tags reporter.Tags) prometheus.Labels {
	if tags.Len() == 0 {
		return nil
	}
	out := make(prometheus.Labels, tags.Len())
	for _, t := range tags.Slice() {
		out[sanitize(t.Key, false)] = t.Value
	}
	return out
}

// SanitizeName maps every character outside [a-zA-Z0-9_:] to '_' and prefixes names
// starting with a digit.
func SanitizeName(name string) string { return sanitize(name, true) }

// label names additionally reject ':'
func sanitize(name string, allowColon bool) string {
	var b strings.Builder
	b.Grow(len(name) + 1)
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':' && allowColon:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
