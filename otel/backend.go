package otel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"

	"github.com/ygrebnov/reporter"
)

// ErrNilMeter is returned by New when no meter is supplied.
var ErrNilMeter = errors.New("nil meter")

var _ reporter.Backend = (*Backend)(nil)

// Backend registers reporter metrics with an OpenTelemetry meter.
type Backend struct {
	meter metric.Meter

	mu            sync.Mutex
	registrations []metric.Registration
}

// New creates a Backend over meter.
func New(meter metric.Meter) (*Backend, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	return &Backend{meter: meter}, nil
}

type counter struct {
	c   metric.Float64Counter
	set metric.MeasurementOption
}

func (c counter) Add(delta float64) { c.c.Add(context.Background(), delta, c.set) }

type timer struct {
	h   metric.Float64Histogram
	set metric.MeasurementOption
}

func (t timer) Record(d time.Duration) { t.h.Record(context.Background(), d.Seconds(), t.set) }

func attributes(tags reporter.Tags) metric.MeasurementOption {
	kvs := make([]attribute.KeyValue, 0, tags.Len())
	for _, t := range tags.Slice() {
		kvs = append(kvs, attribute.String(t.Key, t.Value))
	}
	return metric.WithAttributeSet(attribute.NewSet(kvs...))
}

// RegisterCounter creates a Float64Counter recording with tags as attributes.
func (b *Backend) RegisterCounter(name string, tags reporter.Tags) (reporter.CounterHandle, error) {
	c, err := b.meter.Float64Counter(name)
	if err != nil {
		return nil, fmt.Errorf("create counter %s: %w", name, err)
	}
	return counter{c: c, set: attributes(tags)}, nil
}

// RegisterTimer creates a Float64Histogram in seconds recording with tags as attributes.
func (b *Backend) RegisterTimer(name string, tags reporter.Tags) (reporter.TimerHandle, error) {
	h, err := b.meter.Float64Histogram(name, metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create histogram %s: %w", name, err)
	}
	return timer{h: h, set: attributes(tags)}, nil
}

// RegisterGauge creates an Int64ObservableGauge and a callback observing source.
func (b *Backend) RegisterGauge(name string, tags reporter.Tags, source reporter.ValueSource) error {
	if source == nil {
		return fmt.Errorf("gauge %s: nil value source: %w", name, reporter.ErrInvalidArgument)
	}
	g, err := b.meter.Int64ObservableGauge(name)
	if err != nil {
		return fmt.Errorf("create observable gauge %s: %w", name, err)
	}
	set := attributes(tags)
	registration, err := b.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(g, source.Value(), set)
		return nil
	}, g)
	if err != nil {
		return fmt.Errorf("register callback %s: %w", name, err)
	}

	b.mu.Lock()
	b.registrations = append(b.registrations, registration)
	b.mu.Unlock()
	return nil
}

// Close unregisters all gauge callbacks.
func (b *Backend) Close() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	regs := b.registrations
	b.registrations = nil
	b.mu.Unlock()

	var err error
	for _, r := range regs {
		err = multierr.Append(err, r.Unregister())
	}
	return err
}
