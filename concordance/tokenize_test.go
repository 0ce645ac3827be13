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

package concordance

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func TestTokenizerWords(t *testing.T) {
	testCases := []struct {
		line     string
		expected []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"The quick brown fox.", []string{"the", "quick", "brown", "fox"}},
		{"Don't stop-me now!", []string{"dont", "stop", "me", "now"}},
		{"abc123def 42", []string{"abcdef"}},
		{"under_score (paren) [bracket]", []string{"underscore", "paren", "bracket"}},
		{"well--known", []string{"well", "known"}},
		{"ÉCOLE Naïve", []string{"école", "naïve"}},
		{"tab\tseparated\r", []string{"tab", "separated"}},
	}
	for _, c := range testCases {
		t.Run(c.line, func(t *testing.T) {
			tok := newTokenizer(cases.Lower(language.Und))
			require.Equal(t, c.expected, tok.words(c.line))
		})
	}
}

func TestTokenizerReuse(t *testing.T) {
	tok := newTokenizer(cases.Lower(language.Und))
	first := tok.words("Alpha beta")
	second := tok.words("Gamma")
	require.Equal(t, []string{"alpha", "beta"}, first)
	require.Equal(t, []string{"gamma"}, second)
}

func TestWords(t *testing.T) {
	require.Equal(t, []string{"fox"}, Words("Fox."))
	require.Equal(t, []string{"nd"}, Words("2nd"))
	require.Equal(t, []string{"fox", "trot"}, Words("fox-trot"))
	require.Empty(t, Words("42!"))
}
