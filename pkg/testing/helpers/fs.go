// FF78 Launcher
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of FF78 Launcher.
//
// FF78 Launcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// FF78 Launcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with FF78 Launcher.  If not, see <http://www.gnu.org/licenses/>.

package helpers

import (
	"fmt"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// FSHelper provides utilities for laying out game installs in tests.
type FSHelper struct {
	Fs afero.Fs
}

// NewMemoryFS creates a new FSHelper with an in-memory filesystem.
func NewMemoryFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewMemMapFs(),
	}
}

// CreateGameInstall creates an install dir holding exe and, when
// af3dnSize is positive, an AF3DN.P driver of that size.
func (h *FSHelper) CreateGameInstall(dir, exe string, af3dnSize int) error {
	if err := h.Fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create install dir: %w", err)
	}
	if err := afero.WriteFile(h.Fs, filepath.Join(dir, exe), []byte("MZ"), 0o600); err != nil {
		return fmt.Errorf("failed to write executable: %w", err)
	}
	if af3dnSize > 0 {
		err := afero.WriteFile(h.Fs, filepath.Join(dir, "AF3DN.P"), make([]byte, af3dnSize), 0o600)
		if err != nil {
			return fmt.Errorf("failed to write driver: %w", err)
		}
	}
	return nil
}

// CreateConfigFile writes cfg as TOML to path.
func (h *FSHelper) CreateConfigFile(path string, cfg map[string]any) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to TOML: %w", err)
	}
	if err := h.Fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for config file: %w", err)
	}
	if err := afero.WriteFile(h.Fs, path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MkdirAll creates directories, for save and music folders.
func (h *FSHelper) MkdirAll(paths ...string) error {
	for _, p := range paths {
		if err := h.Fs.MkdirAll(p, 0o750); err != nil {
			return fmt.Errorf("failed to create %s: %w", p, err)
		}
	}
	return nil
}
