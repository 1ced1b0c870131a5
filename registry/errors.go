package registry

import "errors"

// Sentinel errors for the registry. They indicate programmer error and are
// returned unwrapped-able via errors.Is; the bootstrap layer never swallows
// them.
var (
	// ErrInvalidKey is returned when an operation requires a non-empty
	// category or name and received an empty one.
	ErrInvalidKey = errors.New("registry: invalid key")

	// ErrConfiguration is returned when a registration is missing a required
	// attribute or a search asks for an unrecognized result projection.
	ErrConfiguration = errors.New("registry: invalid configuration")
)
