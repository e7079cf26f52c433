// Package otel adapts an OpenTelemetry metric.Meter to the reporter.Backend contract.
//
// Counters map to Float64Counter, timers to a Float64Histogram in seconds and gauges to
// an Int64ObservableGauge whose callback samples the reporter's cell at collection time.
// Tags are attached as attributes.
package otel
