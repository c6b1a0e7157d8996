// Package config provides configuration loading and management for tavigeom.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tavigeom/pkg/centerline"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Centerline parameters
	Centerline struct {
		// SamplesPerSegment is the spline sample density per control segment
		SamplesPerSegment int `yaml:"samplesPerSegment"`

		// StraightHalfLengthMm is the half-length H of the straight annulus
		// segment, in mm on each side of the annulus center
		StraightHalfLengthMm float64 `yaml:"straightHalfLengthMm"`

		// SmoothingWindow is the number of samples re-smoothed at each
		// junction of the straight segment
		SmoothingWindow int `yaml:"smoothingWindow"`
	} `yaml:"centerline"`

	// SCurve parameters
	SCurve struct {
		// CameraDistanceMm is the camera-to-focal-point distance used when
		// converting gantry angles to camera poses
		CameraDistanceMm float64 `yaml:"cameraDistanceMm"`
	} `yaml:"scurve"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	def := centerline.DefaultParams()
	cfg.Centerline.SamplesPerSegment = def.SamplesPerSegment
	cfg.Centerline.StraightHalfLengthMm = def.StraightHalfLengthMm
	cfg.Centerline.SmoothingWindow = def.SmoothingWindow

	cfg.SCurve.CameraDistanceMm = 500

	cfg.Output.Verbose = true

	return cfg
}

// CenterlineParams maps the configuration onto the centerline builder's
// parameter set.
func (c *Config) CenterlineParams() centerline.Params {
	return centerline.Params{
		SamplesPerSegment:    c.Centerline.SamplesPerSegment,
		StraightHalfLengthMm: c.Centerline.StraightHalfLengthMm,
		SmoothingWindow:      c.Centerline.SmoothingWindow,
	}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
