package auto

import "fmt"

// ConfigFactory is the dispatch namespace for config building. It holds no
// state and cannot be constructed; use ConfigFromMap and
// ConfigFromFinetuned.
type ConfigFactory struct{}

// NewConfigFactory always fails with ErrDirectConstruction.
func NewConfigFactory() (*ConfigFactory, error) {
	return nil, fmt.Errorf("%w: use ConfigFromMap or ConfigFromFinetuned", ErrDirectConstruction)
}

// ModelFactory is the dispatch namespace for model building. It holds no
// state and cannot be constructed; use ModelFromConfig and
// ModelFromFinetuned.
type ModelFactory struct{}

// NewModelFactory always fails with ErrDirectConstruction.
func NewModelFactory() (*ModelFactory, error) {
	return nil, fmt.Errorf("%w: use ModelFromConfig or ModelFromFinetuned", ErrDirectConstruction)
}
