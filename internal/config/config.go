package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Config holds the application configuration
type Config struct {
	Dataset    DatasetConfig    `json:"dataset"`
	Preprocess PreprocessConfig `json:"preprocess"`
	Logging    LoggingConfig    `json:"logging"`
}

// DatasetConfig holds configuration for the dataset catalog
type DatasetConfig struct {
	ImageSize    int    `json:"image_size"`
	GlossaryPath string `json:"glossary_path"`
	OutputPath   string `json:"output_path"`
}

// PreprocessConfig holds configuration for the preprocessing driver
type PreprocessConfig struct {
	Workers     int  `json:"workers"`
	JPEGQuality int  `json:"jpeg_quality"`
	Progress    bool `json:"progress"`
}

// LoggingConfig holds configuration for log output
type LoggingConfig struct {
	Level string `json:"level"`
	JSON  bool   `json:"json"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			ImageSize:    512,
			GlossaryPath: "config.json",
			OutputPath:   "training.json",
		},
		Preprocess: PreprocessConfig{
			Workers:     0, // 0 means one worker per CPU
			JPEGQuality: 90,
			Progress:    true,
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Dataset.ImageSize < 1 {
		return fmt.Errorf("dataset.image_size must be positive")
	}

	if c.Preprocess.Workers < 0 {
		return fmt.Errorf("preprocess.workers cannot be negative")
	}

	if c.Preprocess.JPEGQuality < 1 || c.Preprocess.JPEGQuality > 100 {
		return fmt.Errorf("preprocess.jpeg_quality must be between 1 and 100")
	}

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level is not a valid level: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./segprep.json"
	}
	return filepath.Join(home, ".config", "segprep", "config.json")
}
