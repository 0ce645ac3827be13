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

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concordance/quadmap/concordance"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "concordance.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestEmptyStore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, ok, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	lines, ok, err := s.Lookup(ctx, "fox")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, lines)
}

func TestSaveRunAndLookup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries := []concordance.Entry{
		{Word: "brown", Lines: []int{1}},
		{Word: "fox", Lines: []int{1, 2, 3}},
	}
	runID, err := s.SaveRun(ctx, "input.txt", entries)
	require.NoError(t, err)
	_, err = uuid.Parse(runID)
	require.NoError(t, err)

	run, ok, err := s.LatestRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, runID, run.ID)
	assert.Equal(t, "input.txt", run.Source)
	assert.Equal(t, 2, run.Words)
	assert.False(t, run.CreatedAt.IsZero())

	lines, ok, err := s.Lookup(ctx, "fox")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, lines)

	_, ok, err = s.Lookup(ctx, "the")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupUsesLatestRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveRun(ctx, "first.txt", []concordance.Entry{{Word: "fox", Lines: []int{1}}})
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, "second.txt", []concordance.Entry{{Word: "hound", Lines: []int{4, 9}}})
	require.NoError(t, err)

	run, ok, err := s.LatestRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second, run.ID)

	_, ok, err = s.Lookup(ctx, "fox")
	require.NoError(t, err)
	assert.False(t, ok)

	lines, ok, err := s.Lookup(ctx, "hound")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int{4, 9}, lines)
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concordance.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, "input.txt", []concordance.Entry{{Word: "quick", Lines: []int{1, 3}}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())

	lines, ok, err := s.Lookup(ctx, "quick")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int{1, 3}, lines)
}

func TestSaveRunHonoursCancellation(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.SaveRun(ctx, "input.txt", []concordance.Entry{{Word: "fox", Lines: []int{1}}})
	require.Error(t, err)
}

func TestLinesEncoding(t *testing.T) {
	assert.Equal(t, "", formatLines(nil))
	assert.Equal(t, "7", formatLines([]int{7}))
	assert.Equal(t, "1 2 30", formatLines([]int{1, 2, 30}))

	lines, err := parseLines("1 2 30")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 30}, lines)

	_, err = parseLines("1 x")
	require.Error(t, err)
}

func TestIsSQLiteBusy(t *testing.T) {
	assert.False(t, isSQLiteBusy(nil))
	assert.True(t, isSQLiteBusy(errors.New("database is locked")))
	assert.False(t, isSQLiteBusy(errors.New("no such table")))
}
