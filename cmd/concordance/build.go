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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/concordance/quadmap/concordance"
	"github.com/concordance/quadmap/internal/config"
	"github.com/concordance/quadmap/internal/logging"
	"github.com/concordance/quadmap/internal/store"
)

// sourceFlags carries the per-command file and capacity overrides shared by
// build, lookup and stats.
type sourceFlags struct {
	stopWords string
	input     string
	capacity  int
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.stopWords, "stop-words", "", "Stop word list, one word per line")
	cmd.Flags().StringVar(&f.input, "input", "", "Text file to index")
	cmd.Flags().IntVar(&f.capacity, "capacity", 0, "Initial hash table capacity")
}

// apply layers the flag values onto cfg. Paths are expanded the same way the
// config file's are.
func (f *sourceFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	if v := strings.TrimSpace(f.stopWords); v != "" {
		if cfg.Files.StopWords, err = config.ExpandPath(v); err != nil {
			return fmt.Errorf("resolve stop words path: %w", err)
		}
	}
	if v := strings.TrimSpace(f.input); v != "" {
		if cfg.Files.Input, err = config.ExpandPath(v); err != nil {
			return fmt.Errorf("resolve input path: %w", err)
		}
	}
	if cmd.Flags().Changed("capacity") {
		cfg.Table.InitialCapacity = f.capacity
	}
	return cfg.Validate()
}

// buildConcordance loads the stop words and the input text named by cfg.
func buildConcordance(cfg *config.Config, logger *slog.Logger) (*concordance.Builder, error) {
	b, err := concordance.New(
		concordance.WithLogger(logger),
		concordance.WithCapacity(cfg.Table.InitialCapacity),
	)
	if err != nil {
		return nil, err
	}
	if err := b.LoadStopWords(cfg.Files.StopWords); err != nil {
		return nil, fmt.Errorf("load stop words: %w", err)
	}
	if err := b.LoadText(cfg.Files.Input); err != nil {
		return nil, fmt.Errorf("load text: %w", err)
	}
	return b, nil
}

// writeLocked writes the concordance to path while holding an exclusive
// lock on path + ".lock".
func writeLocked(b *concordance.Builder, path string) error {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("output %s is locked by another build", path)
	}
	defer func() {
		_ = lock.Unlock()
	}()
	return b.WriteFile(path)
}

func saveRun(ctx context.Context, path, source string, b *concordance.Builder, logger *slog.Logger) (string, error) {
	s, err := store.Open(ctx, path)
	if err != nil {
		return "", fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	runID, err := s.SaveRun(ctx, source, b.Entries())
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	logger.Debug("run saved",
		logging.String("store", s.Path()),
		logging.String("store_run_id", runID),
	)
	return runID, nil
}

func elapsedSince(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
