// Package config loads and validates auspex configuration.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Config holds all configuration options for auspex.
type Config struct {
	// Thresholds for complexity classification
	Thresholds ThresholdConfig `koanf:"thresholds"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// ThresholdConfig defines complexity thresholds and clustering parameters.
type ThresholdConfig struct {
	Warning        int `koanf:"warning"`
	Critical       int `koanf:"critical"`
	ClusterWindow  int `koanf:"cluster_window"`
	MinClusterSize int `koanf:"min_cluster_size"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns []string `koanf:"patterns"`
	Dirs     []string `koanf:"dirs"`
}

// CacheConfig controls result caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	TTL     int    `koanf:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown, yaml, toon
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: ThresholdConfig{
			Warning:        10,
			Critical:       15,
			ClusterWindow:  5,
			MinClusterSize: 3,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"test_*.py",
				"*_test.py",
			},
			Dirs: []string{
				".git",
				".auspex",
				"__pycache__",
				".venv",
				"venv",
			},
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".auspex/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// schemaJSON is the structural schema config files are checked against before
// unmarshalling. Unknown top-level keys are rejected so typos fail loudly.
const schemaJSON = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "thresholds": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "warning": {"type": "integer", "minimum": 1},
        "critical": {"type": "integer", "minimum": 1},
        "cluster_window": {"type": "integer", "minimum": 1},
        "min_cluster_size": {"type": "integer", "minimum": 1}
      }
    },
    "exclude": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "patterns": {"type": "array", "items": {"type": "string"}},
        "dirs": {"type": "array", "items": {"type": "string"}}
      }
    },
    "cache": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"},
        "dir": {"type": "string"},
        "ttl": {"type": "integer", "minimum": 0}
      }
    },
    "output": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "format": {"type": "string", "enum": ["text", "json", "markdown", "yaml", "toon"]},
        "color": {"type": "boolean"},
        "verbose": {"type": "boolean"}
      }
    }
  }
}`

// Load loads configuration from a file, validates it against the config
// schema, and applies it over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = koanfyaml.Parser()
	case ".json":
		parser = koanfjson.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := validateSchema(k.Raw()); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns
// defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"auspex.toml",
		"auspex.yaml",
		"auspex.yml",
		"auspex.json",
		".auspex.toml",
		".auspex.yaml",
		".auspex.yml",
		".auspex.json",
	}
	searchDirs := []string{".", ".auspex"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}
	return DefaultConfig()
}

// Validate checks cross-field constraints the schema cannot express.
func (c *Config) Validate() error {
	t := c.Thresholds
	if t.Warning <= 0 || t.Critical <= 0 {
		return fmt.Errorf("thresholds must be positive: warning %d, critical %d", t.Warning, t.Critical)
	}
	if t.Warning >= t.Critical {
		return fmt.Errorf("warning threshold %d must be below critical %d", t.Warning, t.Critical)
	}
	if t.ClusterWindow <= 0 || t.MinClusterSize <= 0 {
		return fmt.Errorf("clustering parameters must be positive: window %d, min size %d", t.ClusterWindow, t.MinClusterSize)
	}
	return nil
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

func validateSchema(raw map[string]interface{}) error {
	compiler := jsonschema.NewCompiler()
	schemaDoc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return err
	}
	if err := compiler.AddResource("auspex-config.json", schemaDoc); err != nil {
		return err
	}
	schema, err := compiler.Compile("auspex-config.json")
	if err != nil {
		return err
	}

	// Round-trip through JSON so numbers and maps land in the shapes the
	// validator expects regardless of which parser produced them.
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(buf))
	if err != nil {
		return err
	}
	return schema.Validate(instance)
}
