package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the runner section of a menube config file.
type Config struct {
	Shell   []string          `yaml:"shell" json:"shell"`
	Dir     string            `yaml:"dir" json:"dir"`
	Env     map[string]string `yaml:"env" json:"env"`
	Timeout time.Duration     `yaml:"-" json:"-"`

	// TimeoutRaw holds the timeout as written, e.g. "30s".
	TimeoutRaw string `yaml:"timeout" json:"timeout"`
}

// ConfigFile represents the structure of runner.yaml.
type ConfigFile struct {
	Runner Config `yaml:"runner" json:"runner"`
}

// LoadConfig reads a configuration file (YAML or JSON).
// A missing file yields the zero Config.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read runner config: %w", err)
	}

	var cfg ConfigFile
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if cfg.Runner.TimeoutRaw != "" {
		d, err := time.ParseDuration(cfg.Runner.TimeoutRaw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid runner timeout %q: %w", cfg.Runner.TimeoutRaw, err)
		}
		cfg.Runner.Timeout = d
	}
	return cfg.Runner, nil
}
