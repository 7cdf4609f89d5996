// Package delta defines the vocabulary shared by every delta method: the
// config and model contracts, the descriptors the registries dispatch on,
// and the persistence helpers for finetuned checkpoints.
package delta

import (
	"reflect"

	"github.com/deltakit/deltakit/core/backbone"
)

// Config describes a delta method: which backbone modules it touches and the
// hyperparameters of the method itself. Implementations embed BaseConfig.
type Config interface {
	// DeltaType returns the registry key of the method, e.g. "lora".
	DeltaType() string
	// Base returns the fields shared by all delta configs.
	Base() *BaseConfig
}

// Model is a delta method attached to a backbone.
type Model interface {
	// ID returns the identifier assigned when the delta was attached.
	ID() string
	Config() Config
	Backbone() *backbone.Module
	// DeltaModules lists the parameter blocks the method inserted.
	DeltaModules() []*backbone.Module
	// NumParams returns the number of parameter elements the delta added.
	NumParams() int
	// SaveFinetuned writes the config and checkpoint of the delta into dir.
	SaveFinetuned(dir string) error
}

// ConfigName returns the type name keying the model registry's reverse
// index, e.g. "LoraConfig" for a *lora.LoraConfig value.
func ConfigName(cfg Config) string {
	t := reflect.TypeOf(cfg)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
