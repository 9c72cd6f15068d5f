package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "quicklinks"), c.DataDir)
	assert.Equal(t, BackendJSON, c.Backend)
	assert.Equal(t, int64(10<<20), c.MaxFileBytes)
	assert.Equal(t, "classic", c.Theme)
	assert.Equal(t, "warn", c.LogLevel)
	assert.True(t, c.Watch)
	assert.Equal(t, time.Second, c.PollInterval)
	assert.Empty(t, c.File)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "ql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"backend: sqlite\ntheme: neon\npoll_interval: 250ms\nwatch: false\n"), 0o644))
	t.Setenv("QUICKLINKS_THEME", "mono")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.File)
	assert.Equal(t, BackendSQLite, c.Backend)
	assert.Equal(t, "mono", c.Theme, "env wins over file")
	assert.Equal(t, 250*time.Millisecond, c.PollInterval)
	assert.False(t, c.Watch)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{name: "backend", env: "QUICKLINKS_BACKEND", val: "redis"},
		{name: "theme", env: "QUICKLINKS_THEME", val: "pink"},
		{name: "log level", env: "QUICKLINKS_LOG_LEVEL", val: "loud"},
		{name: "max bytes", env: "QUICKLINKS_MAX_FILE_BYTES", val: "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.env, tt.val)
			_, err := Load("")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestExpandHome(t *testing.T) {
	isolate(t)
	h, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(h, "ql"), expandHome("~/ql"))
	assert.Equal(t, "/abs", expandHome("/abs"))
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config", "quicklinks", "config.yaml")
	assert.Equal(t, path, DefaultPath())

	want := Default()
	want.Backend = BackendSQLite
	want.PollInterval = 3 * time.Second
	require.NoError(t, WriteFile(path, want, false))
	assert.ErrorIs(t, WriteFile(path, want, false), os.ErrExist, "existing file is kept")
	require.NoError(t, WriteFile(path, want, true))

	got, err := Load("")
	require.NoError(t, err)
	want.File = path
	assert.Equal(t, want, got)
}
