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
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// asciiPunctuation is every ASCII punctuation character except '-', which
// is handled separately as a word separator.
const asciiPunctuation = "!\"#$%&'()*+,./:;<=>?@[\\]^_`{|}~"

// tokenizer splits lines into normalized words. It is not safe for
// concurrent use because the underlying caser is stateful.
type tokenizer struct {
	lower cases.Caser
	buf   strings.Builder
}

func newTokenizer(lower cases.Caser) *tokenizer {
	return &tokenizer{lower: lower}
}

// normalize lowercases line, drops ASCII digits and punctuation, and turns
// hyphens into spaces.
func (t *tokenizer) normalize(line string) string {
	line = t.lower.String(line)

	t.buf.Reset()
	t.buf.Grow(len(line))
	for _, r := range line {
		switch {
		case r == '-':
			t.buf.WriteByte(' ')
		case r < utf8.RuneSelf && isDigitOrPunct(byte(r)):
		default:
			t.buf.WriteRune(r)
		}
	}
	return t.buf.String()
}

// words returns the normalized words of line in order of appearance.
func (t *tokenizer) words(line string) []string {
	return strings.Fields(t.normalize(line))
}

func isDigitOrPunct(c byte) bool {
	return ('0' <= c && c <= '9') || strings.IndexByte(asciiPunctuation, c) >= 0
}

// Words splits s into words exactly as ReadText does for a line of text:
// lowercased, with ASCII digits and punctuation removed and hyphens treated
// as separators. Callers use it to turn a query into a concordance key.
func Words(s string) []string {
	return newTokenizer(cases.Lower(language.Und)).words(s)
}
