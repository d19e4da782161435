// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
endpoint: http://localhost:4566
cache:
  clean: 24
resources:
  - dynamo
  - s3
seed:
  data-dir: /fixtures
  resources: not-a-slice
mixed:
  - dynamo
  - 3
`

// withConfig writes body to a temp file, points INFRAMOCK_CFG_FILE at it and
// resets the global Config for the duration of the test.
func withConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("INFRAMOCK_CFG_FILE", path)

	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
	return path
}

func TestLoad(t *testing.T) {
	path := withConfig(t, testConfig)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, "http://localhost:4566", cfg.Data["endpoint"])
}

func TestLoad_InvalidYAML(t *testing.T) {
	withConfig(t, "endpoint: [unterminated")

	_, err := Load()
	assert.Error(t, err)
}

func TestFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv("INFRAMOCK_CFG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := File()
		assert.ErrorContains(t, err, "config file not found")
	})

	t.Run("directory", func(t *testing.T) {
		t.Setenv("INFRAMOCK_CFG_FILE", t.TempDir())
		_, err := File()
		assert.ErrorContains(t, err, "points to a directory")
	})

	t.Run("user config dir", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("INFRAMOCK_CFG_FILE", "")
		t.Setenv("XDG_CONFIG_HOME", dir)
		t.Setenv("HOME", dir)
		t.Setenv("AppData", dir)

		ucd, err := os.UserConfigDir()
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(ucd, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(ucd, FileName), []byte("a: b"), 0o600))

		got, err := File()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(ucd, FileName), got)
	})
}

func TestGetString(t *testing.T) {
	withConfig(t, testConfig)

	v, err := GetString("endpoint")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4566", v)

	v, err = GetString("missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)

	_, err = GetString("missing")
	assert.Error(t, err)

	_, err = GetString("cache.clean")
	assert.ErrorContains(t, err, "not a string")
}

func TestGetInt(t *testing.T) {
	withConfig(t, testConfig)

	v, err := GetInt("cache.clean")
	require.NoError(t, err)
	assert.Equal(t, 24, v)

	v, err = GetInt("cache.missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = GetInt("endpoint")
	assert.ErrorContains(t, err, "not an int")
}

func TestGetStringSlice(t *testing.T) {
	withConfig(t, testConfig)

	v, err := GetStringSlice("resources")
	require.NoError(t, err)
	assert.Equal(t, []string{"dynamo", "s3"}, v)

	v, err = GetStringSlice("nothing", []string{"sns"})
	require.NoError(t, err)
	assert.Equal(t, []string{"sns"}, v)

	_, err = GetStringSlice("mixed")
	assert.ErrorContains(t, err, "slice element")

	_, err = GetStringSlice("endpoint")
	assert.ErrorContains(t, err, "not a slice")
}

func TestNamespace(t *testing.T) {
	withConfig(t, testConfig)
	_, err := Load()
	require.NoError(t, err)

	Config.Namespace = "seed"

	v, err := GetString("data-dir")
	require.NoError(t, err)
	assert.Equal(t, "/fixtures", v)

	// Namespaced key wins even when it has the wrong shape.
	_, err = GetStringSlice("resources")
	assert.ErrorContains(t, err, "not a slice")

	// Falls back to the global key.
	v, err = GetString("endpoint")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4566", v)
}
