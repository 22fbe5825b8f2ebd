// Package config loads forge-build's numeric/wiring configuration from
// YAML. The core pipeline never parses YAML itself — it only ever sees
// the plain Go values this type carries.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the reference CLI's configuration shape.
type Config struct {
	BatchSize   int    `yaml:"batch_size"`
	Threads     int    `yaml:"threads"`
	Format      string `yaml:"format"`
	Input       string `yaml:"input"`
	Output      string `yaml:"output"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Load reads and parses a YAML config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}
