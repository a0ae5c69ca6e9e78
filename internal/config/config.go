package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for rowtree
type Config struct {
	Classifier ClassifierConfig `yaml:"classifier"`
	Repair     RepairConfig     `yaml:"repair"`
	Limits     LimitsConfig     `yaml:"limits"`
	Dev        DevConfig        `yaml:"dev"`
}

// ClassifierConfig holds the lexical lists and the explicit catalog the
// array classifier matches against. The catalog entries are path prefixes
// tied to a known dataset shape; the lexical lists are the general rules.
type ClassifierConfig struct {
	// PluralNouns are segment names treated as plural even though they do
	// not end in "s" (irregular plurals and collective nouns).
	PluralNouns []string `yaml:"plural_nouns"`
	// ArrayHints are segment names that suggest an array when the path's
	// children are structurally uniform.
	ArrayHints []string `yaml:"array_hints"`
	// ContainerNames are generic container segment names that always mark
	// an array parent.
	ContainerNames []string `yaml:"container_names"`
	// Catalog lists path prefixes unconditionally classified as arrays
	// whenever any input path falls under them.
	Catalog []string `yaml:"catalog"`
}

// RepairConfig controls the reconstruction repair heuristics
type RepairConfig struct {
	// Enabled toggles the post-reconstruction repair pass.
	Enabled bool `yaml:"enabled"`
	// Prefixes lists path prefixes whose plain string arrays are upgraded
	// to name-keyed record maps when per-item property rows exist.
	Prefixes []string `yaml:"prefixes"`
	// FallbackSweep toggles the empty-array salvage sweep in the
	// population pass.
	FallbackSweep bool `yaml:"fallback_sweep"`
}

// LimitsConfig bounds traversal on pathological inputs
type LimitsConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values. The catalog and
// repair prefixes default to the biographical-profile shapes the tool was
// first built against; override them per dataset.
func NewConfig() *Config {
	return &Config{
		Classifier: ClassifierConfig{
			PluralNouns:    []string{"children", "people", "media", "staff"},
			ArrayHints:     []string{"items", "elements", "entries", "values", "options"},
			ContainerNames: []string{"list", "items", "array", "collection"},
			Catalog:        []string{"filmography", "awards", "relationships"},
		},
		Repair: RepairConfig{
			Enabled:       true,
			Prefixes:      []string{"filmography", "awards"},
			FallbackSweep: true,
		},
		Limits: LimitsConfig{
			MaxDepth: 128,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults so a partial file only overrides what it names
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Limits.MaxDepth <= 0 {
		return nil, fmt.Errorf("limits.max_depth must be positive, got %d", cfg.Limits.MaxDepth)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".rowtree.yml", ".rowtree.yaml", "rowtree.yml", "rowtree.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}
