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

package mocks

import (
	"context"

	"github.com/ZaparooProject/ff78launcher/pkg/helpers/command"
	"github.com/stretchr/testify/mock"
)

// MockExecutor is a testify mock for command.Executor. It lets launch code
// be tested without starting a real game process.
type MockExecutor struct {
	mock.Mock
}

// Start mocks starting a process.
//
// Example:
//
//	exec := &MockExecutor{}
//	exec.On("Start", mock.Anything, mock.Anything, "/games/ff8/ff8_en.exe", mock.Anything).
//		Return(&MockProcess{}, nil)
func (m *MockExecutor) Start(
	ctx context.Context,
	opts command.StartOptions,
	name string,
	args ...string,
) (command.Process, error) {
	called := m.Called(ctx, opts, name, args)
	proc, _ := called.Get(0).(command.Process)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return proc, called.Error(1)
}

// MockProcess is a started process whose exit is controlled by the test.
// Wait blocks until Exit is called, or returns immediately when Exit is
// nil.
type MockProcess struct {
	Exit    chan error
	WaitErr error
	PID     int
}

func (p *MockProcess) Pid() int {
	return p.PID
}

func (p *MockProcess) Wait() error {
	if p.Exit == nil {
		return p.WaitErr
	}
	return <-p.Exit
}
