package registry

import "errors"

var (
	// ErrKeyNotFound is returned when a delta type key or config type has
	// no registration.
	ErrKeyNotFound = errors.New("delta type not registered")
	// ErrCollision is returned when a registration would shadow a built-in
	// entry.
	ErrCollision = errors.New("delta type already registered")
)
