package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_defaultConfig(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, uint64(1), cfg.Seed)
	assert.Equal(t, "shapescript> ", cfg.Prompt)
}

func Test_loadConfig_missingFileReturnsDefault(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nonexistent.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func Test_loadConfig_overlaysSetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shapescript.toml")
	require.NoError(t, os.WriteFile(path, []byte("seed = 42\n"), 0644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "shapescript> ", cfg.Prompt, "unset fields keep their default")
}

func Test_loadConfig_malformedTOMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shapescript.toml")
	require.NoError(t, os.WriteFile(path, []byte("seed = [this is not valid"), 0644))

	_, err := loadConfig(path)
	assert.Error(t, err)
}
