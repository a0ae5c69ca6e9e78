package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Contains(t, cfg.Classifier.ContainerNames, "list")
	assert.Contains(t, cfg.Classifier.ContainerNames, "items")
	assert.Contains(t, cfg.Classifier.PluralNouns, "children")
	assert.NotEmpty(t, cfg.Classifier.Catalog)
	assert.True(t, cfg.Repair.Enabled)
	assert.True(t, cfg.Repair.FallbackSweep)
	assert.Equal(t, 128, cfg.Limits.MaxDepth)
	assert.False(t, cfg.Dev.Debug)
}

func TestLoadConfig_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rowtree.yml")
	content := `
classifier:
  catalog:
    - publications
repair:
  enabled: false
limits:
  max_depth: 16
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"publications"}, cfg.Classifier.Catalog)
	assert.False(t, cfg.Repair.Enabled)
	assert.Equal(t, 16, cfg.Limits.MaxDepth)
	// Unnamed sections keep their defaults
	assert.Contains(t, cfg.Classifier.ContainerNames, "collection")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rowtree.yml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - ["), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadConfig_BadMaxDepth(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rowtree.yml")
	require.NoError(t, os.WriteFile(path, []byte("limits:\n  max_depth: -1\n"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
