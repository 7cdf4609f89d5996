package registry

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/deltakit/deltakit/core/delta"
	"github.com/deltakit/deltakit/core/logger"
	"github.com/deltakit/deltakit/core/metrics"
)

// modelEntry tracks one key's config and model descriptors. Both sides come
// out of the same module, so a single load materializes the pair.
type modelEntry struct {
	key        string
	module     string
	configAttr string
	modelAttr  string
	loader     delta.ModuleLoader
	ct         *delta.ConfigType
	mt         *delta.ModelType
	static     bool
}

// ModelRegistry dispatches config values to model type descriptors. Built-in
// entries are found through a reverse index from config type name to delta
// type key; the index is frozen at construction and must be injective.
// Dynamic registrations live beside it and are consulted first.
type ModelRegistry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*modelEntry
	// byConfig maps built-in config type names to their keys. Never mutated
	// after construction.
	byConfig      map[string]string
	extraByConfig map[string]*modelEntry
	resolver      AttrResolver
	log           logger.Logger
	sink          metrics.Sink
}

// NewModelRegistry builds a registry over the static table. Table keys and
// config type names must both be unique, and every key needs a loader.
func NewModelRegistry(table []TableEntry, loaders map[string]delta.ModuleLoader, log logger.Logger, sink metrics.Sink) (*ModelRegistry, error) {
	if log == nil {
		log = logger.Nop{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	r := &ModelRegistry{
		order:         make([]string, 0, len(table)),
		entries:       make(map[string]*modelEntry, len(table)),
		byConfig:      make(map[string]string, len(table)),
		extraByConfig: make(map[string]*modelEntry),
		log:           log,
		sink:          sink,
	}
	for _, t := range table {
		if _, ok := r.entries[t.Key]; ok {
			return nil, fmt.Errorf("%w: duplicate table key %s", ErrCollision, t.Key)
		}
		if prev, ok := r.byConfig[t.Config]; ok {
			return nil, fmt.Errorf("%w: config %s claimed by both %s and %s", ErrCollision, t.Config, prev, t.Key)
		}
		loader, ok := loaders[t.Key]
		if !ok || loader == nil {
			return nil, fmt.Errorf("no module loader for %s", t.Key)
		}
		r.order = append(r.order, t.Key)
		r.entries[t.Key] = &modelEntry{
			key:        t.Key,
			module:     t.Module,
			configAttr: t.Config,
			modelAttr:  t.Model,
			loader:     loader,
			static:     true,
		}
		r.byConfig[t.Config] = t.Key
	}
	return r, nil
}

// WithResolver installs a fallback attribute resolver. Call it before the
// registry is first used.
func (r *ModelRegistry) WithResolver(resolver AttrResolver) *ModelRegistry {
	r.resolver = resolver
	return r
}

// Get returns the model type registered under key, loading its module on
// first use.
func (r *ModelRegistry) Get(key string) (*delta.ModelType, error) {
	e, err := r.entry(key)
	if err != nil {
		return nil, err
	}
	return e.mt, nil
}

// GetForConfig returns the model type able to consume cfg, dispatching on
// the config's type name. Dynamic registrations win over built-ins.
func (r *ModelRegistry) GetForConfig(cfg delta.Config) (*delta.ModelType, error) {
	name := delta.ConfigName(cfg)
	if name == "" {
		return nil, fmt.Errorf("%w: config value has no type name", ErrKeyNotFound)
	}
	r.mu.RLock()
	if e, ok := r.extraByConfig[name]; ok {
		mt := e.mt
		r.mu.RUnlock()
		return mt, nil
	}
	key, ok := r.byConfig[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no model accepts config %s, known configs: %s",
			ErrKeyNotFound, name, strings.Join(r.configNames(), ", "))
	}
	e, err := r.entry(key)
	if err != nil {
		return nil, err
	}
	return e.mt, nil
}

// HasConfig reports whether some registered model accepts cfg. It never
// triggers a load.
func (r *ModelRegistry) HasConfig(cfg delta.Config) bool {
	name := delta.ConfigName(cfg)
	if name == "" {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.extraByConfig[name]; ok {
		return true
	}
	key, ok := r.byConfig[name]
	if !ok {
		return false
	}
	_, ok = r.entries[key]
	return ok
}

// Register adds a config/model pair under a fresh key. The key and the
// config type name must both be free of built-in claims; re-registering a
// dynamic key replaces the pair in place.
func (r *ModelRegistry) Register(key string, ct *delta.ConfigType, mt *delta.ModelType) error {
	if ct == nil || mt == nil {
		return fmt.Errorf("nil descriptor for %s", key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if boundKey, ok := r.byConfig[ct.Name]; ok {
		if e, exists := r.entries[boundKey]; exists && e.static {
			return fmt.Errorf("%w: config %s is bound to built-in %s", ErrCollision, ct.Name, boundKey)
		}
	}
	if e, ok := r.entries[key]; ok {
		if e.static {
			return fmt.Errorf("%w: %s is built in, pick another name", ErrCollision, key)
		}
		delete(r.extraByConfig, e.ct.Name)
		e.ct, e.mt = ct, mt
		r.extraByConfig[ct.Name] = e
		return nil
	}
	e := &modelEntry{key: key, ct: ct, mt: mt}
	r.order = append(r.order, key)
	r.entries[key] = e
	r.extraByConfig[ct.Name] = e
	return nil
}

// Has reports whether key is registered. It never triggers a load.
func (r *ModelRegistry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Len returns the number of registered keys.
func (r *ModelRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Keys returns all keys, static table order first, then dynamic
// registrations in registration order. It never triggers a load.
func (r *ModelRegistry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// ConfigTypes returns the config side of every entry in key order,
// materializing built-ins as needed.
func (r *ModelRegistry) ConfigTypes() ([]*delta.ConfigType, error) {
	out := make([]*delta.ConfigType, 0, r.Len())
	for _, key := range r.Keys() {
		e, err := r.entry(key)
		if err != nil {
			return nil, err
		}
		out = append(out, e.ct)
	}
	return out, nil
}

// ModelTypes returns the model side of every entry in key order,
// materializing built-ins as needed.
func (r *ModelRegistry) ModelTypes() ([]*delta.ModelType, error) {
	out := make([]*delta.ModelType, 0, r.Len())
	for _, key := range r.Keys() {
		e, err := r.entry(key)
		if err != nil {
			return nil, err
		}
		out = append(out, e.mt)
	}
	return out, nil
}

// ModelItem is one registry entry with both sides resolved.
type ModelItem struct {
	Key    string
	Config *delta.ConfigType
	Model  *delta.ModelType
}

// Items returns every entry in key order, materializing built-ins as needed.
func (r *ModelRegistry) Items() ([]ModelItem, error) {
	out := make([]ModelItem, 0, r.Len())
	for _, key := range r.Keys() {
		e, err := r.entry(key)
		if err != nil {
			return nil, err
		}
		out = append(out, ModelItem{Key: key, Config: e.ct, Model: e.mt})
	}
	return out, nil
}

// entry returns the entry for key with both descriptors resolved.
func (r *ModelRegistry) entry(key string) (*modelEntry, error) {
	r.mu.RLock()
	e, ok := r.entries[key]
	if ok && e.mt != nil {
		r.mu.RUnlock()
		return e, nil
	}
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return r.resolve(e)
}

func (r *ModelRegistry) resolve(e *modelEntry) (*modelEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.mt != nil {
		return e, nil
	}
	start := time.Now()
	ct, mt, err := r.loadPair(e)
	ev := metrics.ModuleLoadEvent{
		Key:      e.key,
		Module:   e.module,
		Duration: time.Since(start),
		Time:     time.Now(),
	}
	if err != nil {
		ev.Err = err.Error()
	}
	if serr := r.sink.RecordModuleLoad(ev); serr != nil {
		r.log.Warnf("record module load for %s: %v", e.key, serr)
	}
	if err != nil {
		r.log.Errorf("load delta type %s: %v", e.key, err)
		return nil, err
	}
	e.ct, e.mt = ct, mt
	r.log.Debugw("delta module loaded", map[string]any{"key": e.key, "module": e.module, "duration": ev.Duration})
	return e, nil
}

func (r *ModelRegistry) loadPair(e *modelEntry) (*delta.ConfigType, *delta.ModelType, error) {
	mod, err := e.loader()
	if err != nil {
		return nil, nil, fmt.Errorf("load module %s: %w", e.module, err)
	}
	attrs, err := ResolveAttrs(mod, []string{e.configAttr, e.modelAttr}, r.resolver)
	if err != nil {
		return nil, nil, err
	}
	ct, ok := attrs[0].(*delta.ConfigType)
	if !ok {
		return nil, nil, fmt.Errorf("module %s attribute %s is not a config type", e.module, e.configAttr)
	}
	mt, ok := attrs[1].(*delta.ModelType)
	if !ok {
		return nil, nil, fmt.Errorf("module %s attribute %s is not a model type", e.module, e.modelAttr)
	}
	return ct, mt, nil
}

// configNames lists every config type name the registry can dispatch,
// built-ins first. Used in lookup failures.
func (r *ModelRegistry) configNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.order))
	for _, key := range r.order {
		e := r.entries[key]
		if e.static {
			names = append(names, e.configAttr)
		} else if e.ct != nil {
			names = append(names, e.ct.Name)
		}
	}
	return names
}
