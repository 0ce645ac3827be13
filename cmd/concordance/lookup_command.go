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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/concordance/quadmap/concordance"
	"github.com/concordance/quadmap/internal/store"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var src sourceFlags
	var sqlite bool

	cmd := &cobra.Command{
		Use:   "lookup WORD",
		Short: "Print the lines a word appears on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words := concordance.Words(args[0])
			if len(words) == 0 {
				return errors.New("word must not be empty")
			}
			if len(words) > 1 {
				return fmt.Errorf("%q normalizes to %d words; look them up one at a time", args[0], len(words))
			}
			word := words[0]

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			resolved := *cfg
			if err := src.apply(cmd, &resolved); err != nil {
				return err
			}
			useStore := resolved.Store.Enabled
			if cmd.Flags().Changed("sqlite") {
				useStore = sqlite
			}

			var (
				lines []int
				found bool
			)
			if useStore {
				s, err := store.Open(cmd.Context(), resolved.Store.Path)
				if err != nil {
					return fmt.Errorf("open store: %w", err)
				}
				defer s.Close()
				if lines, found, err = s.Lookup(cmd.Context(), word); err != nil {
					return err
				}
			} else {
				logger, err := ctx.ensureLogger()
				if err != nil {
					return err
				}
				b, err := buildConcordance(&resolved, logger)
				if err != nil {
					return err
				}
				lines, found = b.Lookup(word)
			}

			out := cmd.OutOrStdout()
			if !found {
				fmt.Fprintf(out, "%s: not found\n", word)
				return nil
			}
			fmt.Fprintln(out, concordance.Entry{Word: word, Lines: lines}.String())
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&sqlite, "sqlite", false, "Answer from the most recent run in the SQLite store")
	return cmd
}
