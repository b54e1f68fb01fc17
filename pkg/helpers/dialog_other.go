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

//go:build !windows

package helpers

import (
	"fmt"
	"os"
)

// ShowError prints the error notice to stderr; there is no native dialog
// outside Windows builds.
func ShowError(logPath string) {
	_, _ = fmt.Fprintf(
		os.Stderr,
		"Something went wrong while launching the game. Check the log file for more info:\n%s\n",
		logPath,
	)
}
