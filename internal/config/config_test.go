package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	f := pflag.NewFlagSet("kartenbox", pflag.ContinueOnError)
	f.String("config", "", "")
	f.String("db", "kartenbox.db", "")
	f.String("addr", ":8080", "")
	f.String("log-level", "info", "")
	f.Bool("seed-examples", true, "")
	f.String("cache-dir", "repos", "")
	f.String("import", "", "")
	return f
}

func TestLoadDefaults(t *testing.T) {
	f := testFlags(t)
	require.NoError(t, f.Parse(nil))

	cfg, err := Load(f)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "kartenbox.db", cfg.Storage.Path)
	assert.True(t, cfg.Decks.SeedExampleCards)
	assert.Equal(t, "repos", cfg.Import.CacheDir)
}

func TestLoadFlagsOverride(t *testing.T) {
	f := testFlags(t)
	require.NoError(t, f.Parse([]string{"--db", "/tmp/test.db", "--seed-examples=false", "--log-level", "debug"}))

	cfg, err := Load(f)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", cfg.Storage.Path)
	assert.False(t, cfg.Decks.SeedExampleCards)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "kartenbox.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
server:
  addr: ":9999"
  log_level: warn
storage:
  path: /from/file.db
`), 0o644))

	t.Setenv("KARTENBOX_SERVER__LOG_LEVEL", "error")

	f := testFlags(t)
	require.NoError(t, f.Parse([]string{"--config", cfgPath}))

	cfg, err := Load(f)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr, "file value wins over flag default")
	assert.Equal(t, "error", cfg.Server.LogLevel, "env wins over file")
	assert.Equal(t, "/from/file.db", cfg.Storage.Path)
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	f := testFlags(t)
	require.NoError(t, f.Parse([]string{"--log-level", "loud"}))

	_, err := Load(f)
	assert.ErrorContains(t, err, "invalid configuration")
}
