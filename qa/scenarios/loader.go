package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"
)

// BackboneDef selects a synthetic architecture and its settings. Conf is
// passed to the simulator untouched, so scenario files can shrink or grow
// the backbone per case.
type BackboneDef struct {
	Arch string         `yaml:"arch"`
	Conf map[string]any `yaml:"conf,omitempty"`
}

// Expected holds the observable outcome of one attach step.
type Expected struct {
	DeltaModules int      `yaml:"delta_modules"`
	DeltaParams  int      `yaml:"delta_params"`
	Trainable    int      `yaml:"trainable"`
	Unused       []string `yaml:"unused,omitempty"`
}

// StepDef attaches one delta, described by its raw config mapping, to a
// fresh backbone. Steps with round_trip additionally save the delta and
// restore it onto another fresh backbone.
type StepDef struct {
	Fields    map[string]any `yaml:"fields"`
	RoundTrip bool           `yaml:"round_trip,omitempty"`
	Expected  Expected       `yaml:"expected"`
}

// Scenario drives a delta lifecycle against a synthetic backbone.
type Scenario struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Backbone    BackboneDef `yaml:"backbone"`
	Steps       []StepDef   `yaml:"steps"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
