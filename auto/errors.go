package auto

import "errors"

var (
	// ErrMissingDeltaType is returned when a mapping carries no delta_type
	// field.
	ErrMissingDeltaType = errors.New("mapping has no delta_type field")
	// ErrUnrecognizedSource is returned when an artifact declares no delta
	// type and its location matches no known key.
	ErrUnrecognizedSource = errors.New("cannot infer delta type from source")
	// ErrDirectConstruction is returned by the factory constructors; the
	// package-level functions are the only way in.
	ErrDirectConstruction = errors.New("factories are not constructed directly")
	// ErrUnrecognizedConfig is returned when no registered model type
	// accepts the given config.
	ErrUnrecognizedConfig = errors.New("no model type accepts this config")
)
