// Package config loads CLI configuration from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-tex2html/internal/fileutil"
	"github.com/alnah/go-tex2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Config holds all configuration for document transformation.
type Config struct {
	Cache   CacheConfig   `yaml:"cache"`
	Assets  AssetsConfig  `yaml:"assets"`
	Extract ExtractConfig `yaml:"extract"`
	Tools   ToolsConfig   `yaml:"tools"`
	Svg     SvgConfig     `yaml:"svg"`
	Output  OutputConfig  `yaml:"output"`
}

// CacheConfig defines build cache options.
type CacheConfig struct {
	Dir     string `yaml:"dir"`     // Cache directory (empty = no cache)
	Rebuild bool   `yaml:"rebuild"` // Force rebuilds even when artifacts exist
}

// AssetsConfig defines image resolution options.
type AssetsConfig struct {
	Root      string   `yaml:"root"`      // Asset root for public paths (empty = source directory)
	ExtraDirs []string `yaml:"extraDirs"` // Additional image search directories
}

// ExtractConfig defines embedded-image extraction options.
type ExtractConfig struct {
	Blocks   []string `yaml:"blocks"`   // Block environment names to extract
	Packages []string `yaml:"packages"` // Packages loaded by standalone documents
	Dir      string   `yaml:"dir"`      // Output directory (empty = next to source)
}

// ToolsConfig names the external tools.
type ToolsConfig struct {
	Latex   string `yaml:"latex"`   // LaTeX compiler (default latexmk)
	Pdf2Svg string `yaml:"pdf2svg"` // PDF to SVG converter (default pdf2svg)
	Pandoc  string `yaml:"pandoc"`  // Markup converter (default pandoc)
	Katex   string `yaml:"katex"`   // Math renderer (empty = delimiter fallback)
}

// SvgConfig defines SVG post-processing options.
type SvgConfig struct {
	Unit     string `yaml:"unit"`     // Physical unit for width/height (default pt)
	Optimize bool   `yaml:"optimize"` // Run the optimizer chain
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Default output directory (empty = same as source)
}

// DefaultConfig returns a configuration with tikzpicture extraction and
// optimization enabled.
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			Blocks:   []string{"tikzpicture"},
			Packages: []string{"tikz"},
		},
		Svg: SvgConfig{Unit: "pt", Optimize: true},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns an error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		found, err := findConfig(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = found
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- user-supplied config path by design
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// findConfig searches standard locations for a named config.
func findConfig(name string) (string, error) {
	candidates := []string{name + ".yaml", name + ".yml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".config", "tex2html", name+".yaml"),
			filepath.Join(home, ".config", "tex2html", name+".yml"),
		)
	}
	for _, candidate := range candidates {
		if fileutil.FileExists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrConfigNotFound, name)
}
