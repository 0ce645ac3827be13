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

package quadmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHornerHash(t *testing.T) {
	testCases := []struct {
		key      string
		size     int
		expected int
	}{
		{"", 191, 0},
		{"a", 191, 97},
		{"hello", 191, 88},
		{"concordance", 191, 5},
		{"concordance", 383, 116},
		{"é", 191, 233 % 191},
	}
	for _, c := range testCases {
		t.Run(c.key, func(t *testing.T) {
			require.Equal(t, c.expected, HornerHash(c.key, c.size))
		})
	}
}

func TestHornerHashPrefix(t *testing.T) {
	// Only the first eight runes contribute.
	for _, size := range []int{7, 191, 383, 1 << 20} {
		require.Equal(t, HornerHash("abcdefgh", size), HornerHash("abcdefghij", size))
		require.Equal(t, HornerHash("abcdefgh", size), HornerHash("abcdefghxyz", size))
	}

	// The prefix is counted in runes, not bytes.
	require.NotEqual(t, HornerHash("ééééééé", 1<<30), HornerHash("éééééééé", 1<<30))
	require.Equal(t, HornerHash("éééééééé", 1<<30), HornerHash("ééééééééé", 1<<30))
}

func TestHornerHashMatchesPolynomial(t *testing.T) {
	// Horner's rule and the expanded polynomial agree.
	key := "quadrati"
	var raw uint64
	pow := uint64(1)
	for i := len(key) - 1; i >= 0; i-- {
		raw += uint64(key[i]) * pow
		pow *= 31
	}
	require.Equal(t, int(raw%191), HornerHash(key, 191))
	require.Equal(t, int(raw%383), HornerHash(key, 383))
}

func TestMapHashTracksCapacity(t *testing.T) {
	m, err := New[int](191)
	require.NoError(t, err)
	require.Equal(t, 88, m.Hash("hello"))

	m.resize(383)
	require.Equal(t, HornerHash("hello", 383), m.Hash("hello"))
}

func TestMapHashNormalizesCustomHash(t *testing.T) {
	m, err := New[int](7, WithHash[int](func(key string, size int) int {
		return -3
	}))
	require.NoError(t, err)
	require.Equal(t, 4, m.Hash("x"))
}
