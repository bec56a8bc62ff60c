package main

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so it can be decoded from a YAML string like
// "30m" rather than a raw nanosecond count, mirroring janic0-cert-alert's
// Config.Duration helper.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config is the optional --config file format. Every field except
// RefreshEvery has a flag equivalent; a flag explicitly set on the command
// line overrides the matching config field. RefreshEvery is decoded but not
// used by the command.
type Config struct {
	Policy       string   `yaml:"policy"`
	ListURL      string   `yaml:"listURL"`
	SnapshotPath string   `yaml:"snapshotPath"`
	CacheTTL     Duration `yaml:"cacheTTL"`
	RefreshEvery Duration `yaml:"refreshEvery"`
}

// LoadConfigFile reads and parses a YAML config file at path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
