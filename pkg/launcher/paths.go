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

package launcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/ff78launcher/pkg/games"
	"github.com/adrg/xdg"
	"github.com/spf13/afero"
)

// PathResolver supplies the directory values sent to the game.
type PathResolver interface {
	SaveDir() (string, error)
	DocDir() (string, error)
	InstallDir() (string, error)
}

// DocumentsDir returns the user's Documents folder.
func DocumentsDir() (string, error) {
	if xdg.UserDirs.Documents == "" {
		return "", errors.New("documents folder not found")
	}
	return xdg.UserDirs.Documents, nil
}

// Paths resolves the game's directories from the install directory and the
// user's Documents folder.
type Paths struct {
	Fs        afero.Fs
	Documents func() (string, error)
	Install   string
	Variant   games.Variant
}

func NewPaths(afs afero.Fs, installDir string, variant games.Variant) *Paths {
	return &Paths{
		Fs:        afs,
		Documents: DocumentsDir,
		Install:   installDir,
		Variant:   variant,
	}
}

func (p *Paths) exists(rel string) bool {
	_, err := p.Fs.Stat(filepath.Join(p.Install, rel))
	return err == nil
}

// MetadataDir is where the game keeps its metadata and preference files.
// Steam installs use a folder under Documents; the Japanese eStore edition
// and installs with the remastered music pack keep it in the install dir.
func (p *Paths) MetadataDir() (string, error) {
	if p.Variant == games.FF7EStore || p.exists(filepath.Join("data", "music_2")) {
		return p.InstallDir()
	}

	docs, err := p.Documents()
	if err != nil {
		return "", fmt.Errorf("failed to get documents folder: %w", err)
	}

	title := "VIII Steam"
	if p.Variant.IsFF7() {
		title = "VII Steam"
	}
	return filepath.Join(docs, "Square Enix", "FINAL FANTASY "+title), nil
}

// SaveDir appends "save" when the install dir has a save folder, otherwise
// the last user_<id> folder found in the metadata dir, if any.
func (p *Paths) SaveDir() (string, error) {
	dir, err := p.MetadataDir()
	if err != nil {
		return "", err
	}

	if p.exists("save") {
		return filepath.Join(dir, "save"), nil
	}

	entries, err := afero.ReadDir(p.Fs, dir)
	if err != nil {
		return "", fmt.Errorf("failed to read metadata dir: %w", err)
	}

	userDir := ""
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "user_") {
			userDir = e.Name()
		}
	}
	if userDir == "" {
		return dir, nil
	}
	return filepath.Join(dir, userDir), nil
}

func (p *Paths) DocDir() (string, error) {
	return p.MetadataDir()
}

func (p *Paths) InstallDir() (string, error) {
	abs, err := filepath.Abs(p.Install)
	if err != nil {
		return "", fmt.Errorf("failed to resolve install dir: %w", err)
	}
	return abs, nil
}
