package reporter

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned when a caller passes a value outside the accepted range,
	// such as a negative counter increment.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNilBackend is returned by New when no backend is supplied.
	ErrNilBackend = errors.New("nil backend")

	// ErrAlreadyRegistered is returned by BasicBackend when a gauge identity is registered twice.
	ErrAlreadyRegistered = errors.New("metric already registered")
)
