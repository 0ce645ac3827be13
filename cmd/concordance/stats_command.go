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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/concordance/quadmap"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Build a concordance and show hash table statistics",
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
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			b, err := buildConcordance(&resolved, logger)
			if err != nil {
				return err
			}
			stopWords, words := b.Stats()

			out := cmd.OutOrStdout()
			headers := []string{"Table", "Keys", "Capacity", "Load", "Resizes", "Max probe"}
			rows := [][]string{
				statsRow("stop words", stopWords),
				statsRow("concordance", words),
			}
			aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			fmt.Fprintf(out, "%d lines read\n", b.Lines())
			return nil
		},
	}

	src.register(cmd)
	return cmd
}

func statsRow(name string, s quadmap.Stats) []string {
	return []string{
		name,
		strconv.Itoa(s.Len),
		strconv.Itoa(s.Capacity),
		strconv.FormatFloat(s.LoadFactor, 'f', 3, 64),
		strconv.Itoa(s.Resizes),
		strconv.Itoa(s.MaxProbeLength),
	}
}
