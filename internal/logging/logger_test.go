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

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(buf *bytes.Buffer, level slog.Level, color bool) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	return slog.New(newConsoleHandler(buf, lvl, false, color))
}

func TestConsoleHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(newTestConsole(&buf, slog.LevelInfo, false), "concordance")

	logger.Info("text indexed",
		String("path", "/tmp/input file.txt"),
		Int("lines", 3),
		Float64("load_factor", 0.25),
		Bool("resized", false),
	)

	line := strings.TrimSuffix(buf.String(), "\n")
	fields := strings.SplitN(line, " ", 3)
	require.Len(t, fields, 3)
	_, err := time.Parse(time.RFC3339, fields[0])
	require.NoError(t, err)
	assert.Equal(t, "INFO", fields[1])
	assert.Equal(t,
		`concordance: text indexed path="/tmp/input file.txt" lines=3 load_factor=0.25 resized=false`,
		fields[2])
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsole(&buf, slog.LevelWarn, false)

	logger.Info("dropped")
	logger.Debug("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "WARN kept")
}

func TestConsoleHandlerGroupsAndColor(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsole(&buf, slog.LevelDebug, true)

	logger.WithGroup("table").Debug("grown", Int("capacity", 383))
	out := buf.String()
	assert.Contains(t, out, ansiGray+"DEBUG"+ansiReset)
	assert.Contains(t, out, "table.capacity=383")

	buf.Reset()
	logger.Error("failed", Error(errors.New("disk full")))
	assert.Contains(t, buf.String(), ansiRed+"ERROR"+ansiReset)
	assert.Contains(t, buf.String(), `error="disk full"`)
}

func TestConsoleHandlerEmptyMessage(t *testing.T) {
	var buf bytes.Buffer
	newTestConsole(&buf, slog.LevelInfo, false).Info("  ")
	assert.Contains(t, buf.String(), "(no message)")
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := NewComponentLogger(slog.New(newJSONHandler(&buf, lvl, false)), "store")
	logger.Warn("run saved", String(FieldRunID, "abc"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "warn", record["level"])
	assert.Equal(t, "run saved", record["msg"])
	assert.Equal(t, "store", record[FieldComponent])
	assert.Equal(t, "abc", record[FieldRunID])
	assert.Contains(t, record, "ts")
	assert.NotContains(t, record, "time")
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "concordance.log")

	logger, err := New(Options{Level: "debug", Format: "json", OutputPaths: []string{path, path}})
	require.NoError(t, err)
	logger.Debug("hello", Int("n", 1))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "debug", record["level"])
	assert.Contains(t, record["source"], "logger_test.go:")
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	require.ErrorContains(t, err, "unsupported")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestNoop(t *testing.T) {
	logger := NewNop()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
	logger.Error("ignored")

	component := NewComponentLogger(nil, "x")
	require.NotNil(t, component)
	component.Info("ignored")
}
