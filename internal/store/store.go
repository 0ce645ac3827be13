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
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/concordance/quadmap/concordance"
)

// Store manages concordance persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run describes one saved build.
type Run struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Words     int
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the database at path and applies
// migrations. The parent directory is created when missing.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps the pragmas below in effect for every statement.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun writes entries as a new run in a single transaction and returns
// the run ID.
func (s *Store) SaveRun(ctx context.Context, source string, entries []concordance.Entry) (string, error) {
	runID := uuid.NewString()
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() {
			_ = tx.Rollback()
		}()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, source, created_at, word_count) VALUES (?, ?, ?, ?)`,
			runID, source, createdAt, len(entries),
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO entries (run_id, word, lines) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare entry insert: %w", err)
		}
		defer stmt.Close()

		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, runID, e.Word, formatLines(e.Lines)); err != nil {
				return fmt.Errorf("insert entry %q: %w", e.Word, err)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return "", err
	}
	return runID, nil
}

// LatestRun returns the most recently inserted run. ok is false when the store
// is empty.
func (s *Store) LatestRun(ctx context.Context) (run Run, ok bool, err error) {
	var createdAt string
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, created_at, word_count FROM runs ORDER BY rowid DESC LIMIT 1`)
	err = row.Scan(&run.ID, &run.Source, &createdAt, &run.Words)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("latest run: %w", err)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Run{}, false, fmt.Errorf("parse run timestamp %q: %w", createdAt, err)
	}
	return run, true, nil
}

// Lookup returns the line numbers recorded for word in the most recent run.
// A word missing from that run, or an empty store, reports ok == false.
func (s *Store) Lookup(ctx context.Context, word string) ([]int, bool, error) {
	run, ok, err := s.LatestRun(ctx)
	if err != nil || !ok {
		return nil, false, err
	}

	var raw string
	err = s.db.QueryRowContext(ctx,
		`SELECT lines FROM entries WHERE run_id = ? AND word = ?`, run.ID, word,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup %q: %w", word, err)
	}

	lines, err := parseLines(raw)
	if err != nil {
		return nil, false, fmt.Errorf("lookup %q: %w", word, err)
	}
	return lines, true, nil
}

func formatLines(lines []int) string {
	buf := make([]byte, 0, 4*len(lines))
	for i, n := range lines {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, int64(n), 10)
	}
	return string(buf)
}

func parseLines(raw string) ([]int, error) {
	fields := strings.Fields(raw)
	lines := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("parse line number %q: %w", f, err)
		}
		lines = append(lines, n)
	}
	return lines, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
