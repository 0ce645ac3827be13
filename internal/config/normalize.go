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

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeFiles(); err != nil {
		return err
	}
	if err := c.normalizeStore(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeFiles() error {
	var err error
	if c.Files.StopWords, err = expandPath(strings.TrimSpace(c.Files.StopWords)); err != nil {
		return fmt.Errorf("files.stop_words: %w", err)
	}
	if c.Files.Input, err = expandPath(strings.TrimSpace(c.Files.Input)); err != nil {
		return fmt.Errorf("files.input: %w", err)
	}
	if c.Files.Output, err = expandPath(strings.TrimSpace(c.Files.Output)); err != nil {
		return fmt.Errorf("files.output: %w", err)
	}
	return nil
}

func (c *Config) normalizeStore() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		c.Store.Path = defaultStorePath
	}
	var err error
	if c.Store.Path, err = expandPath(strings.TrimSpace(c.Store.Path)); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	if value, ok := os.LookupEnv("CONCORDANCE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}

	paths := make([]string, 0, len(c.Logging.OutputPaths))
	for _, p := range c.Logging.OutputPaths {
		p = strings.TrimSpace(p)
		switch p {
		case "":
			continue
		case "stdout", "stderr":
		default:
			expanded, err := expandPath(p)
			if err != nil {
				return fmt.Errorf("logging.output_paths: %w", err)
			}
			p = expanded
		}
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		paths = []string{"stderr"}
	}
	c.Logging.OutputPaths = paths
	return nil
}
