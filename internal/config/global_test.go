package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalConfigDir_Default(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	dir := GlobalConfigDir()
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", "kpimatrix"), dir)
}

func TestGlobalConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/kpimatrix", GlobalConfigDir())
}

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/kpimatrix/config.yaml", GlobalConfigPath())
}

func TestLoadGlobal_Missing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadGlobal()
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "", cfg.OutputFormat)
}

func TestLoadEffective_RepoOverridesGlobal(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "kpimatrix"), 0o750))
	global := "output_format: markdown\nsheet: Data\ncolumns:\n  Region:\n    roles: [category]\n"
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "kpimatrix", "config.yaml"), []byte(global), 0o600))

	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, FileName), []byte("output_format: json\ncolumns:\n  Sales:\n    roles: [actualValue]\n"), 0o600))

	cfg, err := LoadEffective(repo)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "Data", cfg.Sheet)
	assert.Contains(t, cfg.Columns, "Region")
	assert.Contains(t, cfg.Columns, "Sales")
}

func TestLoadEffective_GlobalError(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "kpimatrix"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "kpimatrix", "config.yaml"), []byte("{{bad"), 0o600))

	_, err := LoadEffective(t.TempDir())
	assert.Error(t, err)
}
