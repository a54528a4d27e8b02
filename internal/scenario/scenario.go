package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one IR program and a
// sequence of scan cycles with expected coil outcomes.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden
	// file when the scenario runs under golden comparison.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Program is the path to the IR JSON file to load,
	// relative to the scenario file location.
	Program string `yaml:"program"`

	// Cycles lists the scan cycles to execute, in order.
	Cycles []CycleStep `yaml:"cycles"`
}

// CycleStep is one scan cycle: the inputs applied before the step and
// the coil values expected afterwards.
type CycleStep struct {
	// Inputs maps signal names to the values applied for this cycle.
	// May be empty; declared but unlisted signals keep their values.
	Inputs map[string]bool `yaml:"inputs"`

	// ExpectCoils is a subset match against the cycle's outputs.
	// If empty, the cycle only has to complete without error.
	ExpectCoils map[string]bool `yaml:"expect_coils,omitempty"`
}

// Load reads and parses a scenario YAML file. The program path is
// resolved relative to the scenario file's directory. Unknown YAML
// fields are rejected, which catches typos like "cycle:" for "cycles:".
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if !filepath.IsAbs(s.Program) && s.Program != "" {
		s.Program = filepath.Join(filepath.Dir(path), s.Program)
	}

	if err := validate(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validate(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Program == "" {
		return fmt.Errorf("program is required")
	}
	if _, err := os.Stat(s.Program); os.IsNotExist(err) {
		return fmt.Errorf("program file not found: %s", s.Program)
	}
	if len(s.Cycles) == 0 {
		return fmt.Errorf("cycles list is required and must be non-empty")
	}
	for i, c := range s.Cycles {
		if c.Inputs == nil {
			return fmt.Errorf("cycles[%d]: inputs is required (use empty map for none)", i)
		}
	}
	return nil
}
