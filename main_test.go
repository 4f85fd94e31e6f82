package main

import (
	"os"
	"path/filepath"
	"testing"

	"peg-plot/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, writeDefaultConfig(path, false))

	err := writeDefaultConfig(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	require.NoError(t, writeDefaultConfig(path, true))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestWriteDefaultConfigMissingDir(t *testing.T) {
	err := writeDefaultConfig(filepath.Join(t.TempDir(), "nope", "config.yaml"), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
