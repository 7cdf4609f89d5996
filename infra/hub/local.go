// Package hub implements artifact loaders over concrete storage. The local
// loader reads delta artifacts saved by SaveFinetuned from the filesystem.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	corehub "github.com/deltakit/deltakit/core/hub"
	"github.com/deltakit/deltakit/infra/logger"
)

// LocalLoader loads delta artifacts from the local filesystem. A location is
// either an artifact directory or a direct path to a config file. Configs
// may be JSON or YAML; checkpoints are always JSON.
type LocalLoader struct {
	root string
	log  logger.Logger
}

// NewLocalLoader returns a loader for local artifact directories.
func NewLocalLoader() *LocalLoader {
	return &LocalLoader{log: logger.New("hub")}
}

// NewLocalLoaderWithRoot returns a loader that resolves relative artifact
// locations under root, so callers can refer to artifacts by name.
func NewLocalLoaderWithRoot(root string) *LocalLoader {
	return &LocalLoader{root: root, log: logger.New("hub")}
}

func (l *LocalLoader) resolve(location string) string {
	if l.root == "" || filepath.IsAbs(location) {
		return location
	}
	return filepath.Join(l.root, location)
}

// LoadConfigMap reads the raw config mapping stored at location.
func (l *LocalLoader) LoadConfigMap(ctx context.Context, location string) (map[string]any, error) {
	path := l.resolve(location)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", location, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, corehub.ConfigFile)
	}

	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	l.log.Debugw("loaded delta config", map[string]any{"path": path})
	return k.Raw(), nil
}

// LoadCheckpoint reads the delta checkpoint stored at location.
func (l *LocalLoader) LoadCheckpoint(ctx context.Context, location string) (*corehub.Checkpoint, error) {
	path := l.resolve(location)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", location, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, corehub.CheckpointFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint %s: %w", path, err)
	}
	var ck corehub.Checkpoint
	if err := json.Unmarshal(data, &ck); err != nil {
		return nil, fmt.Errorf("parse checkpoint %s: %w", path, err)
	}
	l.log.Debugw("loaded delta checkpoint", map[string]any{"path": path, "blocks": len(ck.Params)})
	return &ck, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return kjson.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
}
