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

// Package concordance builds a word concordance on top of quadmap.
//
// A Builder owns two tables: the stop words to exclude and the concordance
// itself, which maps each remaining word to the ascending, deduplicated list
// of 1-based line numbers it appears on. Text is normalized before lookup:
// letters are lowercased, ASCII digits and ASCII punctuation are removed, and
// hyphens separate words.
//
// The written form is one "word: 1 4 9" entry per line, sorted by word, with
// no newline after the final entry.
package concordance
