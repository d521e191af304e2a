package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMainConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadMainConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "./input", cfg.InputDir)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "Sheet1", cfg.SheetName)
	assert.Equal(t, DefaultCompanyName, cfg.CompanyName)
	assert.Equal(t, RendererFPDF, cfg.Renderer)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, 30*time.Second, cfg.GotenbergTimeout)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.False(t, cfg.StrictGroups)
}

func TestLoadMainConfig_YAMLThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
output_dir: ./slips
sheet_name: Orders
company_name: Acme Pty Ltd
strict_groups: true
archive_inputs: true
archive_timestamp_subdirs: true
gotenberg_timeout: 5s
csv:
  delimiter: ";"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("PACKSLIP_OUTPUT_DIR", "/tmp/elsewhere")

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/elsewhere", cfg.OutputDir)
	assert.Equal(t, "Orders", cfg.SheetName)
	assert.Equal(t, "Acme Pty Ltd", cfg.CompanyName)
	assert.True(t, cfg.StrictGroups)
	assert.True(t, cfg.ArchiveInputs)
	assert.True(t, cfg.ArchiveTimestampSubdirs)
	assert.Equal(t, 5*time.Second, cfg.GotenbergTimeout)
	assert.Equal(t, ";", cfg.CSV.Delimiter)
}

func TestLoadMainConfig_GotenbergNeedsURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("renderer: gotenberg\n"), 0o644))

	_, err := LoadMainConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GotenbergURL")
}

func TestLoadMainConfig_RejectsUnknownRenderer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("renderer: latex\n"), 0o644))

	_, err := LoadMainConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Renderer")
}

func TestLoadMainConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: [unterminated\n"), 0o644))

	_, err := LoadMainConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}
