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

// Package main hosts the concordance CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, applies flag overrides,
// builds a structured logger tagged with a per-invocation run ID, and hands
// off to the concordance package. Keep new behaviour in the library packages
// and surface it here through dedicated commands or flags.
package main
