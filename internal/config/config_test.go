// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concordance/quadmap/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CONCORDANCE_LOG_LEVEL", "")

	cfg, resolved, exists, err := config.Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(tempHome, ".config", "concordance", "config.toml"), resolved)

	assert.Equal(t, 191, cfg.Table.InitialCapacity)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.False(t, cfg.Store.Enabled)
	assert.Equal(t, filepath.Join(tempHome, ".local", "share", "concordance", "concordance.db"), cfg.Store.Path)
	assert.True(t, filepath.IsAbs(cfg.Files.Input))
	assert.Equal(t, "input.txt", filepath.Base(cfg.Files.Input))
}

func TestLoadExplicitFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CONCORDANCE_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "concordance.toml")
	contents := `
[files]
stop_words = "~/lists/stop.txt"
input = " ~/texts/moby.txt "
output = "/tmp/out.txt"

[table]
initial_capacity = 7

[logging]
level = " DEBUG "
format = "JSON"

[store]
enabled = true
path = "~/db/c.db"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, resolved, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, path, resolved)

	assert.Equal(t, filepath.Join(tempHome, "lists", "stop.txt"), cfg.Files.StopWords)
	assert.Equal(t, filepath.Join(tempHome, "texts", "moby.txt"), cfg.Files.Input)
	assert.Equal(t, "/tmp/out.txt", cfg.Files.Output)
	assert.Equal(t, 7, cfg.Table.InitialCapacity)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Store.Enabled)
	assert.Equal(t, filepath.Join(tempHome, "db", "c.db"), cfg.Store.Path)
}

func TestLoadMissingExplicitFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, path, resolved)
	assert.Equal(t, config.Default().Table, cfg.Table)
}

func TestLoadLogOutputPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CONCORDANCE_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	contents := "[logging]\noutput_paths = [\" stdout \", \"\", \"~/logs/concordance.log\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, _, _, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"stdout", filepath.Join(home, "logs", "concordance.log")}, cfg.Logging.OutputPaths)

	cfg, _, _, err = config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"stderr"}, cfg.Logging.OutputPaths)
}

func TestLoadEnvLogLevel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CONCORDANCE_LOG_LEVEL", "Warn")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CONCORDANCE_LOG_LEVEL", "")

	tests := []struct {
		name     string
		contents string
		want     string
	}{
		{
			name:     "zero capacity",
			contents: "[table]\ninitial_capacity = 0\n",
			want:     "table.initial_capacity",
		},
		{
			name:     "negative capacity",
			contents: "[table]\ninitial_capacity = -5\n",
			want:     "table.initial_capacity",
		},
		{
			name:     "unknown format",
			contents: "[logging]\nformat = \"xml\"\n",
			want:     "logging.format",
		},
		{
			name:     "unknown level",
			contents: "[logging]\nlevel = \"verbose\"\n",
			want:     "logging.level",
		},
		{
			name:     "unknown key",
			contents: "[table]\nload_factor = 0.75\n",
			want:     "parse config",
		},
		{
			name:     "malformed",
			contents: "[table\n",
			want:     "parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.contents), 0o644))

			_, _, _, err := config.Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateStoreRequiresPath(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Enabled = true
	cfg.Store.Path = ""
	require.ErrorContains(t, cfg.Validate(), "store.path")
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CONCORDANCE_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, config.CreateSample(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed config.Config
	require.NoError(t, toml.Unmarshal(data, &parsed))
	assert.Equal(t, config.Default().Table, parsed.Table)
	assert.Equal(t, config.Default().Logging, parsed.Logging)
	assert.Equal(t, config.Default().Files, parsed.Files)

	cfg, _, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 191, cfg.Table.InitialCapacity)
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := config.ExpandPath("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	got, err = config.ExpandPath("~/a/../b")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "b"), got)

	got, err = config.ExpandPath("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
