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

package config

const (
	defaultConfigPath      = "~/.config/concordance/config.toml"
	projectConfigName      = "concordance.toml"
	defaultStopWordsPath   = "stop_words.txt"
	defaultInputPath       = "input.txt"
	defaultOutputPath      = "concordance.txt"
	defaultStorePath       = "~/.local/share/concordance/concordance.db"
	defaultInitialCapacity = 191
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Files: Files{
			StopWords: defaultStopWordsPath,
			Input:     defaultInputPath,
			Output:    defaultOutputPath,
		},
		Table: Table{
			InitialCapacity: defaultInitialCapacity,
		},
		Logging: Logging{
			Level:       defaultLogLevel,
			Format:      defaultLogFormat,
			OutputPaths: []string{"stderr"},
		},
		Store: Store{
			Enabled: false,
			Path:    defaultStorePath,
		},
	}
}
