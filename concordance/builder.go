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
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/concordance/quadmap"
	"github.com/concordance/quadmap/internal/logging"
)

// DefaultCapacity is the initial capacity of both tables.
const DefaultCapacity = 191

// ErrFileNotFound is returned, wrapped, when an input file does not exist.
// Errors matching it also match fs.ErrNotExist.
var ErrFileNotFound = errors.New("file not found")

// Entry is one word of the concordance and the lines it appears on.
type Entry struct {
	Word  string
	Lines []int
}

// String formats the entry as it is written: "word: 1 4 9".
func (e Entry) String() string {
	buf := make([]byte, 0, len(e.Word)+2+4*len(e.Lines))
	buf = append(buf, e.Word...)
	buf = append(buf, ':')
	for _, n := range e.Lines {
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(n), 10)
	}
	return string(buf)
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithCapacity overrides the initial capacity of both tables.
func WithCapacity(capacity int) Option {
	return func(b *Builder) {
		b.capacity = capacity
	}
}

// Builder accumulates a concordance. Each Builder owns its tables; nothing is
// shared between builders. A Builder is not safe for concurrent use.
type Builder struct {
	logger   *slog.Logger
	capacity int
	tok      *tokenizer

	stopWords *quadmap.Map[struct{}]
	words     *quadmap.Map[[]int]
	// lines is the number of text lines read so far, so that a second
	// ReadText call continues the numbering.
	lines int
}

// New returns an empty Builder.
func New(opts ...Option) (*Builder, error) {
	b := &Builder{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = logging.NewComponentLogger(b.logger, "concordance")

	var err error
	if b.stopWords, err = quadmap.New[struct{}](b.capacity); err != nil {
		return nil, fmt.Errorf("stop word table: %w", err)
	}
	if b.words, err = quadmap.New[[]int](b.capacity); err != nil {
		return nil, fmt.Errorf("concordance table: %w", err)
	}
	b.tok = newTokenizer(cases.Lower(language.Und))
	return b, nil
}

// LoadStopWords reads a newline-delimited stop word list from path.
func (b *Builder) LoadStopWords(path string) error {
	f, err := openInput(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := b.ReadStopWords(f); err != nil {
		return fmt.Errorf("read stop words %s: %w", path, err)
	}
	b.logger.Debug("stop words loaded",
		logging.String("path", path),
		logging.Int("count", b.stopWords.Len()),
		logging.Int("capacity", b.stopWords.Capacity()),
	)
	return nil
}

// ReadStopWords reads one stop word per line. Surrounding white space is
// trimmed, words are lowercased, and blank lines are skipped.
func (b *Builder) ReadStopWords(r io.Reader) error {
	return scanLines(r, func(line string) {
		word := b.tok.lower.String(strings.TrimSpace(line))
		if word == "" {
			return
		}
		b.stopWords.Put(word, struct{}{})
	})
}

// IsStopWord reports whether word is in the stop word table. word is
// compared as given, without normalization.
func (b *Builder) IsStopWord(word string) bool {
	return b.stopWords.Has(word)
}

// LoadText indexes every word of the text file at path.
func (b *Builder) LoadText(path string) error {
	f, err := openInput(path)
	if err != nil {
		return err
	}
	defer f.Close()

	start := b.lines
	if err := b.ReadText(f); err != nil {
		return fmt.Errorf("read text %s: %w", path, err)
	}
	stats := b.words.Stats()
	b.logger.Debug("text indexed",
		logging.String("path", path),
		logging.Int("lines", b.lines-start),
		logging.Int("words", stats.Len),
		logging.Int("capacity", stats.Capacity),
		logging.Float64("load_factor", stats.LoadFactor),
		logging.Int("resizes", stats.Resizes),
	)
	return nil
}

// ReadText indexes every word read from r. Line numbers continue from the
// last line of any previous ReadText call, so lists stay ascending.
func (b *Builder) ReadText(r io.Reader) error {
	return scanLines(r, func(line string) {
		b.lines++
		for _, w := range b.tok.words(line) {
			if b.stopWords.Has(w) {
				continue
			}
			b.add(w, b.lines)
		}
	})
}

// add records that word appears on line n. Lines arrive in ascending order,
// so a repeat on the same line is always the last entry.
func (b *Builder) add(word string, n int) {
	lines, ok := b.words.Get(word)
	if ok && lines[len(lines)-1] == n {
		return
	}
	b.words.Put(word, append(lines, n))
}

// Lookup returns the line numbers for word.
func (b *Builder) Lookup(word string) ([]int, bool) {
	lines, ok := b.words.Get(word)
	if !ok {
		return nil, false
	}
	return slices.Clone(lines), true
}

// Len returns the number of distinct words in the concordance.
func (b *Builder) Len() int {
	return b.words.Len()
}

// Lines returns the number of text lines read so far.
func (b *Builder) Lines() int {
	return b.lines
}

// Entries returns the concordance sorted by word.
func (b *Builder) Entries() []Entry {
	keys := b.words.Keys()
	slices.Sort(keys)

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		lines, _ := b.words.Get(k)
		entries = append(entries, Entry{Word: k, Lines: slices.Clone(lines)})
	}
	return entries
}

// Stats returns statistics for the stop word table and the concordance
// table.
func (b *Builder) Stats() (stopWords, words quadmap.Stats) {
	return b.stopWords.Stats(), b.words.Stats()
}

// WriteTo writes the concordance to w, one entry per line in word order,
// with no newline after the last entry. The returned count covers only bytes
// that reached w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for i, e := range b.Entries() {
		if i > 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return n - int64(bw.Buffered()), err
			}
			n++
		}
		written, err := bw.WriteString(e.String())
		n += int64(written)
		if err != nil {
			return n - int64(bw.Buffered()), err
		}
	}
	if err := bw.Flush(); err != nil {
		return n - int64(bw.Buffered()), err
	}
	return n, nil
}

// WriteFile writes the concordance to path, replacing any existing file.
func (b *Builder) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	if _, err := b.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write output %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", path, err)
	}

	b.logger.Debug("concordance written",
		logging.String("path", path),
		logging.Int("entries", b.words.Len()),
	)
	return nil
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// scanLines calls fn for every line of r with the trailing "\n" or "\r\n"
// removed. Lines may be of any length. A final line without a newline is
// still delivered.
func scanLines(r io.Reader, fn func(line string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			fn(strings.TrimSuffix(line, "\r"))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
