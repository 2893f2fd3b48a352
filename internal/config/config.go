package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/otano/ankimath/internal/deck"
)

// Config represents the application configuration
type Config struct {
	Input     string `toml:"input" validate:"required"`
	Output    string `toml:"output" validate:"required"`
	DeckTitle string `toml:"deck_title" validate:"required"`
	LogLevel  string `toml:"log_level" validate:"required,oneof=debug info warn error"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Input:     "formulas.csv",
		Output:    "trigo_deck.apkg",
		DeckTitle: deck.DefaultTitle,
		LogLevel:  "warn",
	}
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "ankimath", "config.toml")
}

// LoadConfig loads the config file at path. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %v", err)
	}
	config.LogLevel = strings.ToLower(strings.TrimSpace(config.LogLevel))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %v", path, err)
	}

	return config, nil
}

// Validate checks required keys and the log level
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// WriteDefault creates a config file with the default values at path. An
// existing file is left alone and reported as an error.
func WriteDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("config file already exists: %s", path)
	}

	// Ensure the config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %v", err)
	}

	config := Default()

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating config file: %v", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return nil, fmt.Errorf("error encoding config: %v", err)
	}

	return config, nil
}
