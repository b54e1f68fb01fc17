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
	"github.com/ZaparooProject/ff78launcher/pkg/testing/mocks"
	"github.com/stretchr/testify/mock"
)

// NewMockExecutor creates a MockExecutor whose processes start and exit
// successfully straight away.
//
// Example:
//
//	exec := helpers.NewMockExecutor()
//	// ... run code that launches the game
//	exec.AssertCalled(t, "Start", mock.Anything, mock.Anything, exePath, mock.Anything)
func NewMockExecutor() *mocks.MockExecutor {
	exec := &mocks.MockExecutor{}
	exec.On("Start", mock.Anything, mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(&mocks.MockProcess{PID: 4242}, nil).Maybe()
	return exec
}
