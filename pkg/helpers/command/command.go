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

// Package command provides an abstraction over exec.Command for testability.
package command

import (
	"context"
	"os/exec"
)

// StartOptions configures command startup behavior.
type StartOptions struct {
	// Dir is the working directory of the new process. Empty means the
	// launcher's own working directory.
	Dir string
	// HideWindow prevents a console window from appearing (Windows-only).
	// On non-Windows platforms, this field is ignored.
	HideWindow bool
}

// Process is a started child process.
type Process interface {
	Pid() int
	// Wait blocks until the process exits. A non-zero exit status is
	// returned as an error.
	Wait() error
}

// Executor provides an abstraction over exec.Command for testability.
// This allows the game process to be mocked in tests.
type Executor interface {
	// Start starts a command and returns a handle to wait on it.
	Start(ctx context.Context, opts StartOptions, name string, args ...string) (Process, error)
}

// RealExecutor uses actual exec.Command to start processes.
type RealExecutor struct{}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

//nolint:wrapcheck // Wrapping exec errors loses important context
func (p *execProcess) Wait() error {
	return p.cmd.Wait()
}

// Start starts a system command using exec.CommandContext.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) Start(
	ctx context.Context,
	opts StartOptions,
	name string,
	args ...string,
) (Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	applyOptions(cmd, opts)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd}, nil
}
