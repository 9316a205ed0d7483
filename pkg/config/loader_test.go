package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/offlineq/pkg/config"
)

type testConfigSuccess struct {
	Name     string        `env:"TEST_CFG_NAME" envDefault:"default_value"`
	Workers  int           `env:"TEST_CFG_WORKERS" envDefault:"42"`
	Interval time.Duration `env:"TEST_CFG_INTERVAL" envDefault:"5s"`
}

type testConfigDefaults struct {
	Name    string `env:"TEST_CFG_DEFAULT_NAME" envDefault:"fallback"`
	Enabled bool   `env:"TEST_CFG_DEFAULT_ENABLED" envDefault:"true"`
}

type testConfigRequired struct {
	Required string `env:"TEST_CFG_REQUIRED,required"`
}

type testConfigCached struct {
	Value string `env:"TEST_CFG_CACHED" envDefault:"first"`
}

type testConfigFromFile struct {
	Value string `env:"TEST_CFG_FROM_FILE"`
}

func TestLoad(t *testing.T) {
	t.Run("parses environment", func(t *testing.T) {
		t.Setenv("TEST_CFG_NAME", "custom")
		t.Setenv("TEST_CFG_WORKERS", "7")
		t.Setenv("TEST_CFG_INTERVAL", "250ms")
		config.ResetCache()

		var cfg testConfigSuccess
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "custom", cfg.Name)
		assert.Equal(t, 7, cfg.Workers)
		assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	})

	t.Run("applies defaults", func(t *testing.T) {
		var cfg testConfigDefaults
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "fallback", cfg.Name)
		assert.True(t, cfg.Enabled)
	})

	t.Run("missing required value", func(t *testing.T) {
		var cfg testConfigRequired
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[testConfigDefaults](nil), config.ErrNilPointer)
	})

	t.Run("caches per type", func(t *testing.T) {
		config.ResetCache()
		t.Setenv("TEST_CFG_CACHED", "first")

		var first testConfigCached
		require.NoError(t, config.Load(&first))

		t.Setenv("TEST_CFG_CACHED", "second")
		var second testConfigCached
		require.NoError(t, config.Load(&second))
		assert.Equal(t, "first", second.Value)

		config.ResetCache()
		var third testConfigCached
		require.NoError(t, config.Load(&third))
		assert.Equal(t, "second", third.Value)
	})
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		var cfg testConfigRequired
		config.MustLoad(&cfg)
	})
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.test")
	require.NoError(t, os.WriteFile(path, []byte("TEST_CFG_FROM_FILE=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("TEST_CFG_FROM_FILE") })

	require.NoError(t, config.LoadEnv(path))
	config.ResetCache()

	var cfg testConfigFromFile
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from-file", cfg.Value)

	assert.ErrorIs(t, config.LoadEnv(filepath.Join(dir, "missing.env")), config.ErrLoadingEnvFile)
	assert.NoError(t, config.LoadEnv())
}
