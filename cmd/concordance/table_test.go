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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTableKeepsHeaderCase(t *testing.T) {
	var out bytes.Buffer
	got := renderTable(&out,
		[]string{"Table", "Max probe"},
		[][]string{{"concordance", "2"}, {"stop words"}},
		[]columnAlignment{alignLeft, alignRight},
	)

	assert.Contains(t, got, "Max probe")
	assert.NotContains(t, got, "MAX PROBE")
	assert.Contains(t, got, "concordance")
	// A non-terminal writer gets the ASCII style.
	assert.Contains(t, got, "+-")
	assert.NotContains(t, got, "╭")
	require.Equal(t, 6, len(strings.Split(got, "\n")))
}

func TestRenderTableNoColumns(t *testing.T) {
	assert.Empty(t, renderTable(&bytes.Buffer{}, nil, nil, nil))
}
