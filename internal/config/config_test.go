package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "file:patients.db", cfg.Database.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Catalog.Dir)
	assert.True(t, cfg.Patients.Seed)
}

func TestLoadFileEnvAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	file := filepath.Join(dir, "formtpl.yaml")
	require.NoError(t, os.WriteFile(file, []byte("http:\n  addr: \":9000\"\nlog:\n  level: debug\ncatalog:\n  dir: ./templates\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FORMTPL_DATABASE_DSN=file:test.db\n"), 0o600))
	t.Setenv("FORMTPL_LOG_FORMAT", "json")
	t.Cleanup(func() { _ = os.Unsetenv("FORMTPL_DATABASE_DSN") })

	v := viper.New()
	v.Set("http.addr", ":7000")

	cfg, err := Load(Options{Viper: v})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTP.Addr, "explicit values win over the file")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "file:test.db", cfg.Database.DSN)
	assert.Equal(t, "./templates", cfg.Catalog.Dir)
}

func TestLoadRejectsBadCutoff(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("FORMTPL_PATIENTS_RECENT_CUTOFF", "last week")

	_, err := Load(Options{})
	require.Error(t, err)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(Options{File: "nope.yaml"})
	require.Error(t, err)
}
