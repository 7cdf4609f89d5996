package backbone

import "sync"

var (
	symMu   sync.RWMutex
	symbols = map[string]any{}
)

// RegisterSymbol exposes v under name in the backbone symbol namespace. The
// namespace serves as the fallback for registry attributes that are not
// defined by a delta module itself.
func RegisterSymbol(name string, v any) {
	symMu.Lock()
	defer symMu.Unlock()
	symbols[name] = v
}

// LookupSymbol returns the value registered under name.
func LookupSymbol(name string) (any, bool) {
	symMu.RLock()
	defer symMu.RUnlock()
	v, ok := symbols[name]
	return v, ok
}
