// Package config loads the otl2tex CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otlkit/go-otl2tex/internal/fileutil"
	"github.com/otlkit/go-otl2tex/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Config holds all configuration for document generation.
type Config struct {
	Input  InputConfig   `yaml:"input"`
	Output OutputConfig  `yaml:"output"`
	Format FormatConfig  `yaml:"format"`
	Banner BannerConfig  `yaml:"banner"`
	Ruby   RubyConfig    `yaml:"ruby"`
	Styles []StyleConfig `yaml:"styles"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// FormatConfig defines the default style code.
type FormatConfig struct {
	Code string `yaml:"code"` // Style code, e.g. "SSN" (empty = library default)
}

// BannerConfig defines the autogenerated-file banner options.
type BannerConfig struct {
	DateFormat string `yaml:"dateFormat"` // dateutil token syntax or preset name
}

// RubyConfig defines the !ruby evaluator options.
type RubyConfig struct {
	Interpreter string `yaml:"interpreter"` // Interpreter binary (empty = "ruby")
	Disabled    bool   `yaml:"disabled"`    // Render diagnostics instead of evaluating
}

// StyleConfig overrides or adds one entry of the style table.
type StyleConfig struct {
	ID     string `yaml:"id"`
	Before string `yaml:"before"`
	After  string `yaml:"after"`
	Begin  string `yaml:"begin"`
	End    string `yaml:"end"`
}

// DefaultConfig returns a neutral configuration: library defaults for
// format and banner, ruby enabled with the interpreter from PATH.
func DefaultConfig() *Config {
	return &Config{
		Input:  InputConfig{DefaultDir: ""},
		Output: OutputConfig{DefaultDir: ""},
		Format: FormatConfig{Code: ""},
		Banner: BannerConfig{DateFormat: ""},
		Ruby:   RubyConfig{Interpreter: ""},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/otl2tex/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if home, err := os.UserHomeDir(); err == nil {
		for _, ext := range extensions {
			homePath := filepath.Join(home, ".config", "otl2tex", name+ext)
			if fileutil.FileExists(homePath) {
				return homePath, nil
			}
			triedPaths = append(triedPaths, homePath)
		}
	}

	return "", fmt.Errorf("%w: %q (tried %s)", ErrConfigNotFound, name, strings.Join(triedPaths, ", "))
}
