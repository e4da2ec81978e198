package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema.
type FileConfig struct {
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output" json:"output"`
	PDF    string `yaml:"pdf" json:"pdf"`

	Max struct {
		Concurrent int `yaml:"concurrent" json:"concurrent"`
	} `yaml:"max" json:"max"`

	// Timeout is a duration string such as "30s".
	Timeout string `yaml:"timeout" json:"timeout"`
	Verbose bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// that are currently unset or left at their flag defaults. Flags should
// already have been parsed; file config supplies defaults without clobbering
// explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.InputPath == "" && fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if (cfg.OutputPath == "" || cfg.OutputPath == DefaultOutputPath) && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.PDFPath == "" && fc.PDF != "" {
		cfg.PDFPath = fc.PDF
	}
	if (cfg.MaxConcurrent == 0 || cfg.MaxConcurrent == DefaultMaxConcurrent) && fc.Max.Concurrent > 0 {
		cfg.MaxConcurrent = fc.Max.Concurrent
	}
	if cfg.Timeout == 0 || cfg.Timeout == DefaultTimeout {
		if d, err := time.ParseDuration(fc.Timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.InputPath) == "" {
		return errors.New("config: input path is required")
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		return errors.New("config: output path is required")
	}
	if cfg.MaxConcurrent < 0 {
		return errors.New("config: negative concurrency is not allowed")
	}
	if cfg.Timeout < 0 {
		return errors.New("config: negative timeout is not allowed")
	}
	return nil
}
