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

// Package games finds which game executable sits in the install directory
// and works out its variant, locale and launch mode.
package games

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Variant is one of the supported game/edition combinations. Each variant
// has its own field id table.
type Variant int

const (
	FF7Standard Variant = iota
	FF7EStore
	FF8
)

func (v Variant) String() string {
	switch v {
	case FF7Standard:
		return "ff7"
	case FF7EStore:
		return "ff7-estore"
	case FF8:
		return "ff8"
	default:
		return "unknown"
	}
}

// IsFF7 reports whether v is either FF7 edition.
func (v Variant) IsFF7() bool {
	return v == FF7Standard || v == FF7EStore
}

const (
	// AF3DNFile is the driver file shipped with the game; FFNx replaces it
	// with a much larger one.
	AF3DNFile = "AF3DN.P"
	// ffnxMinSize separates the stock driver from FFNx, and the Japanese
	// eStore release from the Steam one.
	ffnxMinSize = 1024 * 1024

	PrefixFF7     = "ff7"
	PrefixFF8     = "ff8"
	PrefixChocobo = "choco"
)

// Executables is the fixed list of candidates, in lookup order.
var Executables = []string{
	"ff7_de.exe",
	"ff7_en.exe",
	"ff7_es.exe",
	"ff7_fr.exe",
	"ff7_ja.exe",
	"ff8_de.exe",
	"ff8_en.exe",
	"ff8_es.exe",
	"ff8_fr.exe",
	"ff8_it.exe",
	"ff8_ja.exe",
}

var (
	ErrNoGame        = errors.New("no process to start found")
	ErrMultipleGames = errors.New("more than one process to start found")
)

// Game describes the detected installation.
type Game struct {
	Executable string
	Lang       string
	Variant    Variant
	UseFFNx    bool
	Chocobo    bool
}

// Prefix returns the literal that prefixes every named IPC object of a
// session for this game.
func (g *Game) Prefix() string {
	if g.Chocobo {
		return PrefixChocobo
	}
	if g.Variant.IsFF7() {
		return PrefixFF7
	}
	return PrefixFF8
}

// NeedsSession reports whether the game expects the launcher handshake.
// FFNx configures the game itself unless chocobo is being launched.
func (g *Game) NeedsSession() bool {
	return !g.UseFFNx || g.Chocobo
}

// EnableChocobo switches the launch target to the chocobo executable for
// the same locale.
func (g *Game) EnableChocobo() {
	g.Chocobo = true
	g.Executable = fmt.Sprintf("chocobo_%s.exe", g.Lang)
}

func exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

func fileSize(fs afero.Fs, path string) (int64, bool) {
	info, err := fs.Stat(path)
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}

// LangFromExecutable returns the locale segment of an executable name, e.g.
// "en" for "ff7_en.exe".
func LangFromExecutable(name string) (string, error) {
	parts := strings.SplitN(name, "_", 3)
	if len(parts) < 2 {
		return "", fmt.Errorf("no language found for process: %s", name)
	}
	lang := strings.TrimSuffix(parts[1], ".exe")
	if lang == "" {
		return "", fmt.Errorf("no language found for process: %s", name)
	}
	return lang, nil
}

// Discover inspects dir for exactly one known game executable.
func Discover(fs afero.Fs, dir string) (*Game, error) {
	var found []string
	for _, exe := range Executables {
		if exists(fs, filepath.Join(dir, exe)) {
			found = append(found, exe)
		}
	}

	switch {
	case len(found) == 0:
		return nil, ErrNoGame
	case len(found) > 1:
		return nil, fmt.Errorf("%w: %v", ErrMultipleGames, found)
	}

	exe := found[0]
	af3dnSize, hasAF3DN := fileSize(fs, filepath.Join(dir, AF3DNFile))

	variant := FF7Standard
	switch {
	case strings.HasPrefix(exe, "ff8"):
		variant = FF8
	case strings.HasPrefix(exe, "ff7_ja") && hasAF3DN && af3dnSize < ffnxMinSize:
		variant = FF7EStore
	}

	lang, err := LangFromExecutable(exe)
	if err != nil {
		return nil, err
	}

	g := &Game{
		Executable: exe,
		Lang:       lang,
		Variant:    variant,
		UseFFNx:    hasAF3DN && af3dnSize > ffnxMinSize,
	}

	log.Info().
		Str("executable", g.Executable).
		Str("variant", g.Variant.String()).
		Str("lang", g.Lang).
		Bool("ffnx", g.UseFFNx).
		Msg("detected game")

	return g, nil
}

// DefaultFs is the filesystem used outside tests.
func DefaultFs() afero.Fs {
	return afero.NewOsFs()
}

// WorkingDir returns the absolute working directory, which is also the
// game's install directory.
func WorkingDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	abs, err := filepath.Abs(wd)
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return abs, nil
}
