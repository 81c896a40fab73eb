// SPDX-License-Identifier: BSD-2-Clause
//
// Copyright (c) 2025 The FreeBSD Foundation.
//
// This software was developed by Hayzam Sherif <hayzam@alchemilla.io>
// of Alchemilla Ventures Pvt. Ltd. <hello@alchemilla.io>,
// under sponsorship from the FreeBSD Foundation.

// Package config loads the small YAML bootstrap file that seeds
// HostContext's overridable defaults before host discovery runs.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk bootstrap file. Any field left unset keeps
// HostContext's own built-in default; CLI flags take precedence over
// whatever is loaded here.
type Config struct {
	Zroot    string `yaml:"zroot"`
	Base     string `yaml:"base"`
	Bridge   string `yaml:"bridge"`
	Debug    bool   `yaml:"debug"`
	DataDir  string `yaml:"data_dir"`
	LogLevel string `yaml:"log_level"`
}

// Load reads and parses path. A missing file is not an error: jailctl
// is usable with built-in defaults and bare CLI flags alone.
func Load(path string) (*Config, error) {
	cfg := &Config{LogLevel: "info"}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// DefaultPath is where jailctl looks for its bootstrap file absent
// --config.
const DefaultPath = "/usr/local/etc/jailctl.yaml"
