// config.go - Configuration management for the aekey tool
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the tool configuration
type Config struct {
	// Key files
	KeyDir  string `json:"key_dir"`
	KeyFile string `json:"key_file"`

	// Mnemonic generation
	MnemonicWords int `json:"mnemonic_words"`

	// Output
	OutputFormat string `json:"output_format"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		KeyDir:        "keys",
		KeyFile:       "aekey.json",
		MnemonicWords: 12,
		OutputFormat:  "text",
		LogLevel:      "info",
		LogFile:       "",
	}
}

// LoadConfig loads configuration from file or creates default
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		// Fields missing from the file keep their defaults.
		config := DefaultConfig()
		if err := json.NewDecoder(file).Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
		}
		return config, nil
	}

	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save default config: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// KeyPath returns the default key file location
func (c *Config) KeyPath() string {
	if filepath.IsAbs(c.KeyFile) {
		return c.KeyFile
	}
	return filepath.Join(c.KeyDir, c.KeyFile)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.KeyFile == "" {
		return fmt.Errorf("key_file must not be empty")
	}
	switch c.MnemonicWords {
	case 12, 15, 18, 21, 24:
	default:
		return fmt.Errorf("mnemonic_words must be one of 12, 15, 18, 21, 24")
	}
	switch c.OutputFormat {
	case "text", "json":
	default:
		return fmt.Errorf("output_format must be text or json")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// entropyBits returns the BIP39 entropy size for MnemonicWords
func (c *Config) entropyBits() int {
	return c.MnemonicWords / 3 * 32
}
