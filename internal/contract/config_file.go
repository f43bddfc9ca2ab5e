package contract

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/schoolfit/core/algo"
	"github.com/huangsam/schoolfit/schema"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFileName is the file viper looks for in the working and home directories.
const DefaultConfigFileName = ".schoolfit.yaml"

const configFileHeader = `# schoolfit configuration
# Weights run from 0 (ignore) to 10. Targets take an option label or a percentage.
# Every key can also be set with a flag or a SCHOOLFIT_* environment variable.
`

// FileConfig is the YAML shape of a .schoolfit.yaml file.
// Keys match the flag names so viper merges both the same way.
type FileConfig struct {
	Data        string            `yaml:"data,omitempty"`
	DataBackend string            `yaml:"data-backend"`
	County      string            `yaml:"county,omitempty"`
	Limit       int               `yaml:"limit"`
	Precision   int               `yaml:"precision"`
	Output      string            `yaml:"output"`
	Color       string            `yaml:"color"`
	Scale       float64           `yaml:"scale"`
	Exponent    float64           `yaml:"exponent"`
	Method      string            `yaml:"method"`
	Weights     map[string]int    `yaml:"weights"`
	Targets     map[string]string `yaml:"targets"`
}

// DefaultFileConfig returns the preset configuration with every metric spelled out.
func DefaultFileConfig() FileConfig {
	fc := FileConfig{
		DataBackend: string(schema.SQLiteBackend),
		Limit:       DefaultResultLimit,
		Precision:   DefaultPrecision,
		Output:      string(schema.TextOut),
		Color:       "yes",
		Scale:       algo.DefaultScale,
		Exponent:    algo.DefaultExponent,
		Method:      string(schema.PercentileMethod),
		Weights:     make(map[string]int),
		Targets:     make(map[string]string),
	}
	for key, weight := range schema.GetDefaultWeights() {
		fc.Weights[string(key)] = weight
	}
	for key, label := range schema.GetDefaultTargets() {
		fc.Targets[string(key)] = label
	}
	return fc
}

// MarshalConfigFile renders a config file with its explanatory header.
func MarshalConfigFile(fc FileConfig) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(configFileHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fc); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteConfigFile writes the default configuration to path.
// An existing file is only replaced when force is set.
func WriteConfigFile(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	data, err := MarshalConfigFile(DefaultFileConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
