// Package config provides configuration loading and management for the
// volume fraction tool. It handles loading configuration from YAML files
// and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/rimadoma/BoneJRefactored/pkg/fraction"
	"github.com/rimadoma/BoneJRefactored/pkg/voxel"
)

// Region describes a rectangular region of interest on one slice.
// SliceNumber is 1-based.
type Region struct {
	SliceNumber int `yaml:"slice"`
	X0          int `yaml:"x0"`
	Y0          int `yaml:"y0"`
	X1          int `yaml:"x1"`
	Y1          int `yaml:"y1"`
}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Thresholds is the inclusive foreground intensity window
	Thresholds struct {
		Min int `yaml:"min"`
		Max int `yaml:"max"`
	} `yaml:"thresholds"`

	// Processing parameters
	Processing struct {
		// ResamplingFactor subsamples the masks before triangulation;
		// 0 means full resolution
		ResamplingFactor int `yaml:"resamplingFactor"`

		// NumCores specifies how many CPU cores to use for mask building
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Regions restricts the computation to rectangular per-slice areas.
	// Empty means the whole extent of every slice.
	Regions []Region `yaml:"regions"`

	// Output parameters
	Output struct {
		// ForegroundSTL is the path the foreground surface is written to,
		// empty to skip
		ForegroundSTL string `yaml:"foregroundStl"`

		// TotalSTL is the path the total surface is written to, empty to skip
		TotalSTL string `yaml:"totalStl"`

		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	defaults := voxel.DefaultThresholds(voxel.BitDepth8)
	cfg.Thresholds.Min = defaults.Min
	cfg.Thresholds.Max = defaults.Max

	cfg.Processing.ResamplingFactor = fraction.DefaultResampling
	cfg.Processing.NumCores = runtime.NumCPU()

	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
