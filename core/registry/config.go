package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/deltakit/deltakit/core/delta"
	"github.com/deltakit/deltakit/core/logger"
	"github.com/deltakit/deltakit/core/metrics"
)

// configEntry tracks one key's registration. Static entries start unresolved
// and materialize on first lookup; dynamic entries arrive already resolved.
type configEntry struct {
	key    string
	module string
	attr   string
	loader delta.ModuleLoader
	ct     *delta.ConfigType
	static bool
}

// ConfigRegistry maps delta type keys to config type descriptors. Built-in
// entries load their backing module lazily, at most once per key. Dynamic
// registrations may add new keys but never shadow a built-in.
type ConfigRegistry struct {
	mu       sync.RWMutex
	order    []string
	entries  map[string]*configEntry
	resolver AttrResolver
	log      logger.Logger
	sink     metrics.Sink
}

// NewConfigRegistry builds a registry over the static table. Every table key
// must be unique and backed by a loader.
func NewConfigRegistry(table []TableEntry, loaders map[string]delta.ModuleLoader, log logger.Logger, sink metrics.Sink) (*ConfigRegistry, error) {
	if log == nil {
		log = logger.Nop{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	r := &ConfigRegistry{
		order:   make([]string, 0, len(table)),
		entries: make(map[string]*configEntry, len(table)),
		log:     log,
		sink:    sink,
	}
	for _, t := range table {
		if _, ok := r.entries[t.Key]; ok {
			return nil, fmt.Errorf("%w: duplicate table key %s", ErrCollision, t.Key)
		}
		loader, ok := loaders[t.Key]
		if !ok || loader == nil {
			return nil, fmt.Errorf("no module loader for %s", t.Key)
		}
		r.order = append(r.order, t.Key)
		r.entries[t.Key] = &configEntry{
			key:    t.Key,
			module: t.Module,
			attr:   t.Config,
			loader: loader,
			static: true,
		}
	}
	return r, nil
}

// WithResolver installs a fallback attribute resolver. Call it before the
// registry is first used.
func (r *ConfigRegistry) WithResolver(resolver AttrResolver) *ConfigRegistry {
	r.resolver = resolver
	return r
}

// Get returns the config type registered under key, loading its module on
// first use. Unknown keys fail with ErrKeyNotFound.
func (r *ConfigRegistry) Get(key string) (*delta.ConfigType, error) {
	r.mu.RLock()
	e, ok := r.entries[key]
	if ok && e.ct != nil {
		r.mu.RUnlock()
		return e.ct, nil
	}
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return r.resolve(e)
}

// resolve materializes the entry's config type under the write lock so the
// loader runs at most once even under concurrent lookups.
func (r *ConfigRegistry) resolve(e *configEntry) (*delta.ConfigType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ct != nil {
		return e.ct, nil
	}
	start := time.Now()
	ct, err := r.loadConfig(e)
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
	e.ct = ct
	r.log.Debugw("delta module loaded", map[string]any{"key": e.key, "module": e.module, "duration": ev.Duration})
	return ct, nil
}

func (r *ConfigRegistry) loadConfig(e *configEntry) (*delta.ConfigType, error) {
	mod, err := e.loader()
	if err != nil {
		return nil, fmt.Errorf("load module %s: %w", e.module, err)
	}
	v, err := ResolveAttr(mod, e.attr, r.resolver)
	if err != nil {
		return nil, err
	}
	ct, ok := v.(*delta.ConfigType)
	if !ok {
		return nil, fmt.Errorf("module %s attribute %s is not a config type", e.module, e.attr)
	}
	return ct, nil
}

// Register adds a config type under a fresh key. Keys owned by the static
// table are protected; re-registering a dynamic key replaces it in place.
func (r *ConfigRegistry) Register(key string, ct *delta.ConfigType) error {
	if ct == nil {
		return fmt.Errorf("nil config type for %s", key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok {
		if e.static {
			return fmt.Errorf("%w: %s is built in, pick another name", ErrCollision, key)
		}
		e.ct = ct
		return nil
	}
	r.order = append(r.order, key)
	r.entries[key] = &configEntry{key: key, ct: ct}
	return nil
}

// Has reports whether key is registered. It never triggers a load.
func (r *ConfigRegistry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Len returns the number of registered keys.
func (r *ConfigRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Keys returns all keys, static table order first, then dynamic
// registrations in registration order. It never triggers a load.
func (r *ConfigRegistry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Values returns every registered config type in key order, materializing
// built-in entries as needed.
func (r *ConfigRegistry) Values() ([]*delta.ConfigType, error) {
	keys := r.Keys()
	out := make([]*delta.ConfigType, 0, len(keys))
	for _, key := range keys {
		ct, err := r.Get(key)
		if err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, nil
}

// ConfigItem pairs a key with its resolved config type.
type ConfigItem struct {
	Key    string
	Config *delta.ConfigType
}

// Items returns key/config pairs in key order, materializing built-in
// entries as needed.
func (r *ConfigRegistry) Items() ([]ConfigItem, error) {
	keys := r.Keys()
	out := make([]ConfigItem, 0, len(keys))
	for _, key := range keys {
		ct, err := r.Get(key)
		if err != nil {
			return nil, err
		}
		out = append(out, ConfigItem{Key: key, Config: ct})
	}
	return out, nil
}
