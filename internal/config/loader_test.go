package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithNoFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultColor, cfg.Color)
	assert.Equal(t, DefaultStartRule, cfg.StartRule)
	assert.Equal(t, DefaultMetricsAddr, cfg.MetricsAddr)
}

func TestLoadReadsExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("start_rule: program\ncolor: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "program", cfg.StartRule)
	assert.False(t, cfg.Color)
}

func TestLoadEnvOverridesFileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("start_rule: program\n"), 0o644))

	t.Setenv("PEGO_START_RULE", "entry")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "entry", cfg.StartRule)
}
