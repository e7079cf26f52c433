package reporter

import "github.com/rs/zerolog"

type basicBackendConfig struct {
	// when false, remove per-key mutex entries from `inits` after initialization to
	// allow GC of mutexes for many ephemeral instrument identities. Default: false.
	doNotCleanupInits bool
	logger            zerolog.Logger
}

// BasicBackendOption configures a BasicBackend constructed by NewBasicBackend.
type BasicBackendOption func(*basicBackendConfig)

// WithInitCleanupDisabled controls whether per-key init mutex entries are removed from
// the backend's internal `inits` map after initialization. When enabled the
// entries are deleted to allow GC of mutexes for ephemeral identities.
// Init cleanup is enabled by default; this option disables it.
func WithInitCleanupDisabled() BasicBackendOption {
	return func(cfg *basicBackendConfig) { cfg.doNotCleanupInits = true }
}

// WithBasicBackendLogger sets the logger invariant violations are reported to.
func WithBasicBackendLogger(l zerolog.Logger) BasicBackendOption {
	return func(cfg *basicBackendConfig) { cfg.logger = l }
}
