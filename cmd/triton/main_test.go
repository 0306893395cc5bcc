package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/indigo-web/triton/http/mime"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := loadConfig(options{})
		require.NoError(t, err)
		require.Equal(t, 5*time.Second, cfg.NET.ReadTimeout)
	})

	t.Run("file and flag", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "triton.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"NET": {"ReadTimeout": "1m"}, "Static": {"Index": "home.htm"}}`), 0o644))

		cfg, err := loadConfig(options{Config: path})
		require.NoError(t, err)
		require.Equal(t, time.Minute, cfg.NET.ReadTimeout)
		require.Equal(t, "home.htm", cfg.Static.Index)

		cfg, err = loadConfig(options{Config: path, Timeout: time.Second})
		require.NoError(t, err)
		require.Equal(t, time.Second, cfg.NET.ReadTimeout)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(options{Config: filepath.Join(t.TempDir(), "nope.json")})
		require.Error(t, err)
	})
}

func TestLoadMIME(t *testing.T) {
	cfg, err := loadConfig(options{})
	require.NoError(t, err)
	cfg.Static.MIME["md"] = "text/markdown"

	path := filepath.Join(t.TempDir(), "mime.types")
	require.NoError(t, os.WriteFile(path, []byte("# custom\n.wat text/wat\nTXT text/x-plain\n"), 0o644))

	table, err := loadMIME(cfg, path)
	require.NoError(t, err)
	require.Equal(t, "text/markdown", table.Lookup(".md"))
	require.Equal(t, "text/wat", table.Lookup(".wat"))
	require.Equal(t, "text/x-plain", table.Lookup(".txt"))
	require.Equal(t, mime.HTML, table.Lookup(".html"))

	_, err = loadMIME(cfg, filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
