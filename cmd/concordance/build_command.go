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
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/concordance/quadmap/internal/config"
	"github.com/concordance/quadmap/internal/logging"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var src sourceFlags
	var output string
	var sqlite bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a concordance and write it to the output file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			resolved := *cfg
			if err := src.apply(cmd, &resolved); err != nil {
				return err
			}
			if v := strings.TrimSpace(output); v != "" {
				if resolved.Files.Output, err = config.ExpandPath(v); err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
			}
			if cmd.Flags().Changed("sqlite") {
				resolved.Store.Enabled = sqlite
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			start := time.Now()
			b, err := buildConcordance(&resolved, logger)
			if err != nil {
				return err
			}
			if err := writeLocked(b, resolved.Files.Output); err != nil {
				return err
			}

			var storedRun string
			if resolved.Store.Enabled {
				if storedRun, err = saveRun(cmd.Context(), resolved.Store.Path, resolved.Files.Input, b, logger); err != nil {
					return err
				}
			}

			_, words := b.Stats()
			logger.Info("concordance built",
				logging.String("input", resolved.Files.Input),
				logging.String("output", resolved.Files.Output),
				logging.Int("lines", b.Lines()),
				logging.Int("words", words.Len),
				logging.Int("capacity", words.Capacity),
				logging.String("elapsed", elapsedSince(start)),
			)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d words to %s\n", b.Len(), resolved.Files.Output)
			if storedRun != "" {
				fmt.Fprintf(out, "Saved run %s to %s\n", storedRun, resolved.Store.Path)
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&output, "output", "", "Destination for the concordance listing")
	cmd.Flags().BoolVar(&sqlite, "sqlite", false, "Also save the concordance to the SQLite store")
	return cmd
}
