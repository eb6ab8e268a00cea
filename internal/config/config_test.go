package config_test

import (
	"testing"

	"github.com/plus3/gemboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("gems", nil)
	require.NoError(t, err)

	assert.Equal(t, &config.Config{LogLevel: "info"}, cfg)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("GEMBOARD_LOG_LEVEL", "debug")
	t.Setenv("GEMBOARD_DEBUG", "true")
	t.Setenv("GEMBOARD_SEED", "42")

	cfg, err := config.Load("gems", nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Debug)
	assert.Equal(t, uint64(42), cfg.Seed)

	t.Run("flags win over environment", func(t *testing.T) {
		cfg, err := config.Load("gems", []string{"-seed", "7", "-debug=false", "-assets", "/tmp/art"})
		require.NoError(t, err)
		assert.Equal(t, uint64(7), cfg.Seed)
		assert.False(t, cfg.Debug)
		assert.Equal(t, "/tmp/art", cfg.AssetsDir)
	})
}

func TestLoadErrors(t *testing.T) {
	t.Run("bad environment value", func(t *testing.T) {
		t.Setenv("GEMBOARD_SEED", "many")
		_, err := config.Load("gems", nil)
		assert.ErrorContains(t, err, "GEMBOARD_SEED")
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := config.Load("gems", []string{"-bogus"})
		assert.Error(t, err)
	})
}

func TestExitCode(t *testing.T) {
	t.Run("bad environment value", func(t *testing.T) {
		t.Setenv("GEMBOARD_DEBUG", "maybe")
		_, err := config.Load("gems", nil)
		require.ErrorContains(t, err, "GEMBOARD_DEBUG")
		assert.Equal(t, 2, config.ExitCode(err))
	})

	t.Run("help exits cleanly", func(t *testing.T) {
		_, err := config.Load("gems", []string{"-h"})
		require.Error(t, err)
		assert.Equal(t, 0, config.ExitCode(err))
	})
}
