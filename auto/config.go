package auto

import (
	"context"
	"fmt"
	"strings"

	"github.com/deltakit/deltakit/catalog"
	"github.com/deltakit/deltakit/core/delta"
)

// ConfigFromMap builds a config from a raw field mapping. The mapping must
// contain a delta_type field selecting the method; it is consumed here and
// never forwarded. The remaining fields override the method's defaults, and
// fields the config did not consume are returned for the caller to forward.
func ConfigFromMap(fields map[string]any) (delta.Config, map[string]any, error) {
	work := make(map[string]any, len(fields))
	for k, v := range fields {
		work[k] = v
	}
	raw, ok := work["delta_type"]
	if !ok {
		return nil, nil, ErrMissingDeltaType
	}
	key, ok := raw.(string)
	if !ok || key == "" {
		return nil, nil, fmt.Errorf("%w: delta_type must be a non-empty string, got %T", ErrMissingDeltaType, raw)
	}
	delete(work, "delta_type")

	ct, err := catalog.Configs().Get(key)
	if err != nil {
		return nil, nil, err
	}
	return ct.FromMap(work)
}

// ConfigFromFinetuned builds a config from the artifact at location. When
// the stored mapping carries a delta_type field it dispatches like
// ConfigFromMap; otherwise the method is inferred from the location string,
// taking the first registry key that occurs in it as a substring.
func ConfigFromFinetuned(ctx context.Context, location string, opts ...Option) (delta.Config, map[string]any, error) {
	o := newOptions(opts)
	fields, err := o.hubLoader().LoadConfigMap(ctx, location)
	if err != nil {
		return nil, nil, err
	}
	merged := make(map[string]any, len(fields)+len(o.fields))
	for k, v := range fields {
		merged[k] = v
	}
	for k, v := range o.fields {
		merged[k] = v
	}

	if _, ok := merged["delta_type"]; ok {
		return ConfigFromMap(merged)
	}
	keys := catalog.Configs().Keys()
	for _, key := range keys {
		if strings.Contains(location, key) {
			ct, err := catalog.Configs().Get(key)
			if err != nil {
				return nil, nil, err
			}
			return ct.FromMap(merged)
		}
	}
	return nil, nil, fmt.Errorf("%w: %s has no delta_type field and matches no known key (known: %s)",
		ErrUnrecognizedSource, location, strings.Join(keys, ", "))
}
