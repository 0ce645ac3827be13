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
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFiles(); err != nil {
		return err
	}
	if err := c.validateTable(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFiles() error {
	if c.Files.StopWords == "" {
		return errors.New("files.stop_words must be set")
	}
	if c.Files.Input == "" {
		return errors.New("files.input must be set")
	}
	if c.Files.Output == "" {
		return errors.New("files.output must be set")
	}
	return nil
}

func (c *Config) validateTable() error {
	if c.Table.InitialCapacity <= 0 {
		return fmt.Errorf("table.initial_capacity must be positive, got %d", c.Table.InitialCapacity)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.Enabled && c.Store.Path == "" {
		return errors.New("store.path must be set when store.enabled is true")
	}
	return nil
}
