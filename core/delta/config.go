package delta

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// BaseConfig carries the fields every delta config persists alongside its
// method-specific hyperparameters. The provenance fields (backbone class,
// checksum, version) are stamped when a model is attached.
type BaseConfig struct {
	Type             string   `json:"delta_type"`
	ModifiedModules  []string `json:"modified_modules,omitempty"`
	ExcludeModules   []string `json:"exclude_modules,omitempty"`
	UnfrozenModules  []string `json:"unfrozen_modules,omitempty"`
	BackboneClass    string   `json:"backbone_class,omitempty"`
	BackboneChecksum string   `json:"backbone_checksum,omitempty"`
	Version          string   `json:"deltakit_version,omitempty"`
}

// DeltaType returns the registry key of the method.
func (c *BaseConfig) DeltaType() string { return c.Type }

// Base returns the shared fields.
func (c *BaseConfig) Base() *BaseConfig { return c }

// FromMap builds a config of this type from a raw field mapping. The config
// starts from the type's defaults; fields present in the mapping override
// them. Unknown fields are not an error; they are returned so callers can
// forward them.
func (ct *ConfigType) FromMap(fields map[string]any) (Config, map[string]any, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	cfg := ct.New()
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:  "json",
		Result:   cfg,
		Metadata: &md,
		Squash:   true,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := dec.Decode(fields); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", ct.Name, err)
	}
	unused := make(map[string]any, len(md.Unused))
	for _, k := range md.Unused {
		// Nested unused keys are reported dotted; only top-level fields
		// can be forwarded.
		if !strings.Contains(k, ".") {
			unused[k] = fields[k]
		}
	}
	return cfg, unused, nil
}
