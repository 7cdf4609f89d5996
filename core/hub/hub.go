// Package hub defines how delta artifacts are located and loaded. An
// artifact is a directory (or remote object) holding the delta config and
// the checkpoint with the delta parameter blocks.
package hub

import "context"

// Names of the files making up a delta artifact.
const (
	ConfigFile     = "config.json"
	CheckpointFile = "delta_checkpoint.json"
)

// Loader retrieves delta artifacts from a storage location.
type Loader interface {
	// LoadConfigMap returns the raw config mapping stored at location.
	LoadConfigMap(ctx context.Context, location string) (map[string]any, error)
	// LoadCheckpoint returns the delta checkpoint stored at location.
	LoadCheckpoint(ctx context.Context, location string) (*Checkpoint, error)
}

// ParamBlock is one delta parameter matrix in row-major order. The name is
// the dotted module path followed by "/" and the parameter name.
type ParamBlock struct {
	Name string    `json:"name"`
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// Checkpoint is the serialized state of an attached delta.
type Checkpoint struct {
	DeltaType        string       `json:"delta_type"`
	BackboneChecksum string       `json:"backbone_checksum"`
	Params           []ParamBlock `json:"params"`
}
