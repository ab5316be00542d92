package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())
	require.Equal(t, filepath.Join("keys", "aekey.json"), config.KeyPath())
	require.Equal(t, 128, config.entropyBits())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty key file", func(c *Config) { c.KeyFile = "" }},
		{"bad word count", func(c *Config) { c.MnemonicWords = 13 }},
		{"bad output format", func(c *Config) { c.OutputFormat = "yaml" }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			require.Error(t, config.Validate())
		})
	}

	config := DefaultConfig()
	config.MnemonicWords = 24
	require.NoError(t, config.Validate())
	require.Equal(t, 256, config.entropyBits())
}

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "aekey.config.json")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), config)

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, config, again)
}

func TestLoadConfigKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aekey.config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"key_dir": "/tmp/balances", "output_format": "json"}`), 0600))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/balances", config.KeyDir)
	require.Equal(t, "json", config.OutputFormat)
	require.Equal(t, "aekey.json", config.KeyFile)
	require.Equal(t, 12, config.MnemonicWords)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aekey.config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mnemonic_words": 7}`), 0600))
	_, err := LoadConfig(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0600))
	_, err = LoadConfig(path)
	require.Error(t, err)
}

func TestKeyPathAbsolute(t *testing.T) {
	config := DefaultConfig()
	config.KeyFile = "/etc/aekey/key.json"
	require.Equal(t, "/etc/aekey/key.json", config.KeyPath())
}
