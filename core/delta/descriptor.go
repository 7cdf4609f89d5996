package delta

import (
	"context"
	"sort"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/hub"
	"github.com/deltakit/deltakit/core/logger"
)

// Module is a named bundle of attributes produced by a module loader. It is
// the unit of lazy loading: attributes hold the *ConfigType and *ModelType
// descriptors the registries resolve by name.
type Module struct {
	name  string
	attrs map[string]any
}

// NewModule creates a module with the given attribute set.
func NewModule(name string, attrs map[string]any) *Module {
	return &Module{name: name, attrs: attrs}
}

// Name returns the module's import-path-like name.
func (m *Module) Name() string { return m.name }

// Attr returns the named attribute.
func (m *Module) Attr(name string) (any, bool) {
	v, ok := m.attrs[name]
	return v, ok
}

// AttrNames returns the attribute names in sorted order.
func (m *Module) AttrNames() []string {
	names := make([]string, 0, len(m.attrs))
	for n := range m.attrs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ModuleLoader materializes a delta module on first use. Implementations are
// memoized, so a module is constructed at most once per process no matter
// how many registries share it.
type ModuleLoader func() (*Module, error)

// ConfigType describes a registrable delta config implementation. New must
// return a fresh config with the method's defaults applied.
type ConfigType struct {
	Name string
	New  func() Config
}

// RestoreOptions carries the dependencies for restoring a finetuned delta.
type RestoreOptions struct {
	// Config is the already resolved delta config.
	Config Config
	// Loader retrieves the checkpoint.
	Loader hub.Loader
	// SkipChecksum disables backbone structure verification.
	SkipChecksum bool
	// Extra holds fields of the source mapping the config did not consume.
	Extra map[string]any
	// Logger used during restore. Defaults to a silent logger.
	Logger logger.Logger
}

// ModelType describes a registrable delta model implementation.
type ModelType struct {
	Name string
	// FromConfig attaches a fresh delta built from cfg to the backbone.
	FromConfig func(cfg Config, bb *backbone.Module) (Model, error)
	// FromFinetuned attaches a delta and fills it from the checkpoint at
	// location.
	FromFinetuned func(ctx context.Context, location string, bb *backbone.Module, opts RestoreOptions) (Model, error)
}
