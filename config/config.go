// Copyright 2024 The FlareDB Authors
// This file is part of FlareDB.
//
// FlareDB is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// FlareDB is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with FlareDB. If not, see <http://www.gnu.org/licenses/>.

// Package config loads the on-disk engine configuration: worker count,
// per-query memory budget, and spill thresholds.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/c2h5oh/datasize"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the engine-wide configuration loaded once at process start.
type Config struct {
	Workers       int               `yaml:"workers" toml:"workers"`
	MaxBatchBytes datasize.ByteSize `yaml:"max_batch_bytes" toml:"max_batch_bytes"`
	MemoryBudget  datasize.ByteSize `yaml:"memory_budget" toml:"memory_budget"`
	SpillDir      string            `yaml:"spill_dir" toml:"spill_dir"`
	LogLevel      string            `yaml:"log_level" toml:"log_level"`
	LogFormat     string            `yaml:"log_format" toml:"log_format"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{
		Workers:       4,
		MaxBatchBytes: 64 * datasize.MB,
		MemoryBudget:  1 * datasize.GB,
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// Load reads and parses a config file at path, starting from Default so an
// omitted field keeps its default rather than zeroing out. The format is
// chosen by extension: ".toml" parses as TOML, anything else as YAML.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
