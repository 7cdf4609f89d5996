// Package factory provides a small generic registry used to instantiate
// pluggable components from configuration. A plugin is defined by a type
// string and a map of raw settings; its factory decodes the settings into a
// typed struct and returns the concrete implementation. deltakit uses it for
// metrics sinks and synthetic backbone architectures.
//
// Example usage:
//
//	reg := factory.NewRegistry[io.Reader]()
//	reg.Register("file", func(conf map[string]any) (io.Reader, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return os.Open(c.Path)
//	})
//	r, err := reg.Create(factory.PluginConfig{Type: "file", Conf: map[string]any{"path": "foo"}})
package factory
