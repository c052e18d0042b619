package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentic-research/trackedit/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultDatabase, cfg.Database)

	cfg, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)

	cfg, err = Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, "trackedit.yaml", `
log_level: debug
database: /tmp/ridge.db
naming:
  track: Tour
  split_suffix_compact: "-2"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, "/tmp/ridge.db", cfg.Database)

	n := cfg.CommandNaming()
	assert.Equal(t, "Tour", n.DefaultName(tree.KindTrack))
	assert.Equal(t, "seg-2", n.SplitName("seg"))
	assert.Equal(t, "Day 1 (split)", n.SplitName("Day 1"))
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TRACKEDIT_DATABASE", "env.db")
	path := write(t, "trackedit.yaml", "database: file.db\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.Database)
}

func TestLoad_HCL(t *testing.T) {
	path := write(t, "trackedit.hcl", `
log_format = "json"

naming {
  folder = "Photos"
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	require.NotNil(t, cfg.Naming)
	assert.Equal(t, "Photos", cfg.Naming.Folder)

	_, err = Load(write(t, "broken.hcl", `log_format = `))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	log, err := cfg.NewLogger(&buf)
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = (&Config{LogLevel: "loud"}).NewLogger(&buf)
	assert.Error(t, err)
	_, err = (&Config{LogLevel: "info", LogFormat: "xml"}).NewLogger(&buf)
	assert.Error(t, err)
}
