package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		cfg, err := loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:8888", cfg.ListenAddr)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Empty(t, cfg.WSAddr)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "relay.json")
		data := `{"listen_addr": "0.0.0.0:9000", "ws_addr": ":9001", "log_level": "debug"}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		cfg, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
		assert.Equal(t, ":9001", cfg.WSAddr)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("bad json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "relay.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
		_, err := loadConfig(path)
		assert.Error(t, err)
	})
}
