// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
)

// GlobalConfigDir returns the directory for global kpimatrix configuration.
// It uses $XDG_CONFIG_HOME/kpimatrix if set, otherwise ~/.config/kpimatrix.
func GlobalConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kpimatrix")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "kpimatrix")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yaml")
}

// LoadGlobal loads the global config file.
// If the file does not exist, it returns a zero-value Config and nil error.
func LoadGlobal() (*Config, error) {
	return loadFile(GlobalConfigPath())
}

// LoadEffective loads the global config and the config in dir and merges
// them, with dir's values taking precedence.
func LoadEffective(dir string) (*Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return nil, err
	}
	repo, err := Load(dir)
	if err != nil {
		return nil, err
	}
	return MergeConfigs(global, repo), nil
}
