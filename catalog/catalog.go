// Package catalog binds the built-in delta methods to their registry keys
// and owns the process-wide default registries the auto factories use.
package catalog

import (
	"sync"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/delta"
	"github.com/deltakit/deltakit/core/metrics"
	"github.com/deltakit/deltakit/core/registry"
	"github.com/deltakit/deltakit/deltas/adapter"
	"github.com/deltakit/deltakit/deltas/bitfit"
	"github.com/deltakit/deltakit/deltas/compacter"
	"github.com/deltakit/deltakit/deltas/lora"
	"github.com/deltakit/deltakit/deltas/lowrank"
	"github.com/deltakit/deltakit/deltas/prefix"
	"github.com/deltakit/deltakit/deltas/softprompt"
	"github.com/deltakit/deltakit/infra/logger"
)

// Table returns the built-in delta type table. The order is part of the
// compatibility contract: substring dispatch in the auto factories walks it
// front to back, which is why low_rank_adapter precedes adapter.
func Table() []registry.TableEntry {
	return []registry.TableEntry{
		{Key: "lora", Module: "deltakit/deltas/lora", Config: "LoraConfig", Model: "LoraModel"},
		{Key: "low_rank_adapter", Module: "deltakit/deltas/low_rank_adapter", Config: "LowRankAdapterConfig", Model: "LowRankAdapterModel"},
		{Key: "bitfit", Module: "deltakit/deltas/bitfit", Config: "BitFitConfig", Model: "BitFitModel"},
		{Key: "adapter", Module: "deltakit/deltas/adapter", Config: "AdapterConfig", Model: "AdapterModel"},
		{Key: "compacter", Module: "deltakit/deltas/compacter", Config: "CompacterConfig", Model: "CompacterModel"},
		{Key: "prefix", Module: "deltakit/deltas/prefix", Config: "PrefixConfig", Model: "PrefixModel"},
		{Key: "soft_prompt", Module: "deltakit/deltas/soft_prompt", Config: "SoftPromptConfig", Model: "SoftPromptModel"},
	}
}

// Loaders returns the module loader for every built-in key.
func Loaders() map[string]delta.ModuleLoader {
	return map[string]delta.ModuleLoader{
		"lora":             lora.Load,
		"low_rank_adapter": lowrank.Load,
		"bitfit":           bitfit.Load,
		"adapter":          adapter.Load,
		"compacter":        compacter.Load,
		"prefix":           prefix.Load,
		"soft_prompt":      softprompt.Load,
	}
}

var (
	mu      sync.Mutex
	built   bool
	log     logger.Logger
	sink    metrics.Sink
	configs *registry.ConfigRegistry
	models  *registry.ModelRegistry
)

// Configure sets the logger and metrics sink the default registries are
// built with. Calls after the registries exist have no effect.
func Configure(l logger.Logger, s metrics.Sink) {
	mu.Lock()
	defer mu.Unlock()
	if built {
		return
	}
	if l != nil {
		log = l
	}
	if s != nil {
		sink = s
	}
}

// Configs returns the default config registry over the built-in table.
func Configs() *registry.ConfigRegistry {
	ensure()
	return configs
}

// Models returns the default model registry over the built-in table.
func Models() *registry.ModelRegistry {
	ensure()
	return models
}

func ensure() {
	mu.Lock()
	defer mu.Unlock()
	if built {
		return
	}
	l := log
	if l == nil {
		l = logger.New("registry")
	}
	s := sink
	if s == nil {
		s = metrics.NopSink{}
	}

	var err error
	configs, err = registry.NewConfigRegistry(Table(), Loaders(), l, s)
	if err != nil {
		panic("catalog: invalid built-in table: " + err.Error())
	}
	models, err = registry.NewModelRegistry(Table(), Loaders(), l, s)
	if err != nil {
		panic("catalog: invalid built-in table: " + err.Error())
	}
	// Descriptors may reference shared symbols living outside their own
	// module, for example backbone classes registered by the host
	// application.
	configs.WithResolver(backbone.LookupSymbol)
	models.WithResolver(backbone.LookupSymbol)
	built = true
}
