// Package prom adapts a prometheus.Registerer to the reporter.Backend contract.
//
// Counters become prometheus counters, timers become histograms observed in seconds and
// gauges become GaugeFuncs that sample the reporter's cell on every scrape. Tags are
// attached as constant labels. Names and label names are sanitized to the classic
// Prometheus character set, so "app.inflight" is registered as "app_inflight".
package prom
