package mediamtx

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the subset of the MediaMTX configuration this application
// manages. Fields left zero are omitted so mediamtx keeps its own
// defaults for them.
type Config struct {
	LogLevel    string `yaml:"logLevel,omitempty"`
	RTSPAddress string `yaml:"rtspAddress,omitempty"`

	Paths map[string]PathConfig `yaml:"paths,omitempty"`
}

// PathConfig is one path entry.
type PathConfig struct {
	Source string `yaml:"source,omitempty"`
}

// NewConfig creates a configuration serving RTSP on the given address
// with an open publish path for the capture process.
func NewConfig(rtspAddress, path string) *Config {
	c := &Config{
		LogLevel:    "info",
		RTSPAddress: rtspAddress,
		Paths:       make(map[string]PathConfig),
	}
	if path != "" {
		c.Paths[path] = PathConfig{Source: "publisher"}
	}
	return c
}

// WriteToFile writes the configuration as YAML.
func (c *Config) WriteToFile(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// EnsureConfig writes a default configuration next to the binary when none
// exists yet, so the relay serves the expected address and path. An
// existing file is left alone.
func EnsureConfig(binary, rtspAddress, path string) error {
	filename := filepath.Join(filepath.Dir(binary), ConfigFileName)
	if _, err := os.Stat(filename); err == nil {
		return nil
	}
	return NewConfig(rtspAddress, path).WriteToFile(filename)
}

// LoadFromFile loads a configuration from a YAML file.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &c, nil
}
