/*
Package reporter provides a small facade for creating and mutating named counters, timers
and gauges against a pluggable metrics backend.

# Overview

The package is organized around two sides:

1. Backend: the collaborator that owns aggregation and export. It registers a named,
tagged metric and returns a live handle. Gauges are registered with a ValueSource the
backend samples at export time.

	type Backend interface {
	  RegisterCounter(name string, tags Tags) (CounterHandle, error)
	  RegisterTimer(name string, tags Tags) (TimerHandle, error)
	  RegisterGauge(name string, tags Tags, source ValueSource) error
	}

2. Reporter: the entry point. It prepends a prefix to every name, merges its global tags
under the call-site tags, and hands out Counter, Timer and Gauge handles.

Backends shipped with the module:

  - BasicBackend (this package): in-memory, with an Inspector for tests and debugging.
  - prom.Backend: a prometheus.Registerer.
  - otel.Backend: an OpenTelemetry metric.Meter.

# Gauge registration

Backends are not expected to deduplicate gauges, so the Reporter does. Each Reporter owns
a Registry mapping a registration key to the single Cell registered for it:

 1. Fast path: look up the key in a sync.Map and return the cell if present.
 2. Slow path: acquire the registry guard (honoring the caller's context), re-check,
    create a zero Cell, register it with the backend and store it only if that succeeded.
 3. Handles for the same key share the Cell; mutations are atomic adds.

The key is the qualified name by default (KeyByName). Requests for an existing name with
different tags share the first registration and log a warning. WithGaugeKeying(KeyByNameAndTags)
keys gauges by name and tags instead.

# Surround

Gauge.Surround increments the gauge, runs an action and decrements the gauge in a deferred
call, so the gauge nets zero whether the action succeeds, fails, is cancelled or panics.

Examples

	b := reporter.NewBasicBackend()
	r, err := reporter.New(b, reporter.WithPrefix("app."), reporter.WithGlobalTagMap(map[string]string{"env": "prod"}))
	if err != nil {
	    return err
	}

	inflight, err := r.GaugeWith(ctx, "inflight", map[string]string{"route": "/x"})
	if err != nil {
	    return err
	}
	err = inflight.Surround(ctx, func(ctx context.Context) error {
	    return handle(ctx)
	})

# Build and test

- Run unit tests:

	go test ./...

- Run with the race detector (enables stricter invariant behavior in BasicBackend):

	go test -race ./...

- Enable debug build tag (debug invariants enabled):

	go test -tags=debug ./...
*/
package reporter
