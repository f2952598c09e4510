package wheelext

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Report summarises a packaging run.
type Report struct {
	State     State    `yaml:"state"`
	Package   string   `yaml:"package"`
	Suffix    string   `yaml:"suffix"`
	Edition   string   `yaml:"edition,omitempty"`
	SourceDir string   `yaml:"source_dir"`
	OutputDir string   `yaml:"output_dir"`
	Modules   []string `yaml:"modules"`
	Artifacts []string `yaml:"artifacts"`
}

// MarshalYAML writes the state by name.
func (s State) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// WriteYAML writes the report to path.
func (r *Report) WriteYAML(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
