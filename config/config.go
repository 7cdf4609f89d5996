// Package config loads the deltakit runtime configuration used by the
// deltactl CLI and by applications embedding the library. Files may be YAML
// or JSON; every key can be overridden through DELTAKIT_-prefixed
// environment variables ("__" separates nesting levels).
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/deltakit/deltakit/core/metrics"
)

type Config struct {
	Logging    LoggingConfig    `json:"logging"`
	Metrics    metrics.Config   `json:"metrics"`
	Hub        HubConfig        `json:"hub"`
	Monitoring MonitoringConfig `json:"monitoring"`
}

// Load reads the configuration file at path and applies environment
// overrides on top.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := loadEnv(k); err != nil {
		return nil, err
	}
	return finish(k)
}

// Default returns the configuration built from defaults and environment
// overrides only, for runs without a config file.
func Default() (*Config, error) {
	k := koanf.New(".")
	if err := loadEnv(k); err != nil {
		return nil, err
	}
	return finish(k)
}

func loadEnv(k *koanf.Koanf) error {
	return k.Load(env.Provider("DELTAKIT_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "deltakit_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
}

func finish(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Logging.SetDefaults()
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
