package registry

import (
	"fmt"

	"github.com/deltakit/deltakit/core/delta"
)

// AttrResolver looks up names a module does not define itself. The catalog
// installs the backbone symbol namespace as the fallback, so descriptors
// shared across modules resolve the same way everywhere.
type AttrResolver func(name string) (any, bool)

// ResolveAttr returns the named attribute from mod, consulting fallback when
// the module lacks it.
func ResolveAttr(mod *delta.Module, name string, fallback AttrResolver) (any, error) {
	if v, ok := mod.Attr(name); ok {
		return v, nil
	}
	if fallback != nil {
		if v, ok := fallback(name); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("module %s has no attribute %s", mod.Name(), name)
}

// ResolveAttrs resolves names element-wise, failing on the first miss.
func ResolveAttrs(mod *delta.Module, names []string, fallback AttrResolver) ([]any, error) {
	out := make([]any, 0, len(names))
	for _, name := range names {
		v, err := ResolveAttr(mod, name, fallback)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
