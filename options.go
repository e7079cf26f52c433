package reporter

import (
	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// GaugeKeying selects the registration key gauges are deduplicated by.
type GaugeKeying int

const (
	// KeyByName deduplicates gauges by qualified name only. Requests for the same name
	// with different tags share the first registration; the mismatch is logged as a warning.
	KeyByName GaugeKeying = iota
	// KeyByNameAndTags deduplicates gauges by qualified name and effective tags.
	KeyByNameAndTags
)

func (k GaugeKeying) String() string {
	switch k {
	case KeyByName:
		return "name"
	case KeyByNameAndTags:
		return "name+tags"
	default:
		return "unknown"
	}
}

type config struct {
	prefix     string
	globalTags Tags
	registry   *Registry
	logger     zerolog.Logger
	clock      clock.Clock
	keying     GaugeKeying
}

// Option configures a Reporter constructed by New.
type Option func(*config)

// WithPrefix sets the string prepended to every metric name, with no separator.
func WithPrefix(prefix string) Option {
	return func(c *config) { c.prefix = prefix }
}

// WithGlobalTags sets tags attached to every metric. Call-site tags override them per key.
func WithGlobalTags(tags Tags) Option {
	return func(c *config) { c.globalTags = tags }
}

// WithGlobalTagMap is WithGlobalTags for a plain map.
func WithGlobalTagMap(tags map[string]string) Option {
	return func(c *config) { c.globalTags = TagsFromMap(tags) }
}

// WithRegistry makes the Reporter use r as its gauge registration table.
// Reporters sharing a Registry must also share the backend.
func WithRegistry(r *Registry) Option {
	return func(c *config) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithClock sets the clock timers measure with. Defaults to the wall clock.
func WithClock(clk clock.Clock) Option {
	return func(c *config) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithGaugeKeying selects how gauges are deduplicated. Defaults to KeyByName.
func WithGaugeKeying(k GaugeKeying) Option {
	return func(c *config) { c.keying = k }
}
