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

package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/ZaparooProject/ff78launcher/pkg/config"
)

type Flags struct {
	Version *bool
	Debug   *bool
	Dir     *string
}

// SetupFlags defines the launcher's CLI flags on the default flag set.
func SetupFlags() *Flags {
	return SetupFlagSet(flag.CommandLine)
}

// SetupFlagSet defines the launcher's CLI flags on fs.
func SetupFlagSet(fs *flag.FlagSet) *Flags {
	return &Flags{
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Debug: fs.Bool(
			"debug",
			false,
			"enable debug logging and also log to the console",
		),
		Dir: fs.String(
			"dir",
			"",
			"game install directory to run from (defaults to the working directory)",
		),
	}
}

// Pre runs flag parsing and actions any immediate flags that don't
// require environment setup. Add any custom flags before running this.
func (f *Flags) Pre() {
	flag.Parse()

	if *f.Version {
		_, _ = fmt.Printf("%s v%s\n", config.AppName, config.AppVersion)
		os.Exit(0)
	}
}

// ChangeDir switches to the -dir install directory, if given. The games
// resolve everything relative to the working directory.
func (f *Flags) ChangeDir() error {
	if f.Dir == nil || *f.Dir == "" {
		return nil
	}
	if err := os.Chdir(*f.Dir); err != nil {
		return fmt.Errorf("failed to change to install dir: %w", err)
	}
	return nil
}
