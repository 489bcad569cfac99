package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("loads config from file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		content := `
destination: /srv/projects
copySidecars: false
extentMargin: 10
limit: 5
`
		require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

		loader := NewLoader()
		cfg, err := loader.Load(configFile)

		require.NoError(t, err)
		assert.Equal(t, "/srv/projects", cfg.Destination)
		require.NotNil(t, cfg.CopySidecars)
		assert.False(t, *cfg.CopySidecars)
		assert.Equal(t, 10, cfg.ExtentMargin)
		assert.Equal(t, 5, cfg.Limit)
	})

	t.Run("returns empty config for missing file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "nonexistent.yaml")

		loader := NewLoader()
		cfg, err := loader.Load(configFile)

		require.NoError(t, err)
		assert.Empty(t, cfg.Destination)
		assert.Nil(t, cfg.CopySidecars)
	})

	t.Run("loads from environment variables", func(t *testing.T) {
		t.Setenv("ATLASGEN_DESTINATION", "/env/projects")
		t.Setenv("ATLASGEN_EXTENT_MARGIN", "25")

		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "empty.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte(""), 0o644))

		loader := NewLoader()
		cfg, err := loader.Load(configFile)

		require.NoError(t, err)
		assert.Equal(t, "/env/projects", cfg.Destination)
		assert.Equal(t, 25, cfg.ExtentMargin)
	})

	t.Run("env vars override file values", func(t *testing.T) {
		t.Setenv("ATLASGEN_DESTINATION", "/env/projects")

		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("destination: /file/projects\n"), 0o644))

		loader := NewLoader()
		cfg, err := loader.Load(configFile)

		require.NoError(t, err)
		assert.Equal(t, "/env/projects", cfg.Destination)
	})
}

func TestWithDefaults(t *testing.T) {
	cfg := (&Config{}).WithDefaults()
	require.NotNil(t, cfg.CopySidecars)
	assert.True(t, *cfg.CopySidecars)
	assert.True(t, cfg.ShouldCopySidecars())
}
