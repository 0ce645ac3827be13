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

// Package logging assembles the structured slog loggers used by the
// concordance CLI.
//
// It owns the console and JSON handlers, level parsing, and output routing
// (stdout, stderr, or files). The console handler colours level labels only
// when it writes to a terminal. A no-op logger is provided for library code
// and tests that have nowhere to send output.
package logging
