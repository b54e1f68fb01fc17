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

const (
	gameCanReadMsgSem        = "_gameCanReadMsgSem"
	gameDidReadMsgSem        = "_gameDidReadMsgSem"
	launcherCanReadMsgSem    = "_launcherCanReadMsgSem"
	launcherDidReadMsgSem    = "_launcherDidReadMsgSem"
	sharedMemoryWithLauncher = "_sharedMemoryWithLauncher"
)

// Names builds the names of a session's OS objects from its prefix.
type Names struct {
	Prefix string
}

// GameCanRead is released by the launcher once a message is in the mailbox.
func (n Names) GameCanRead() string { return n.Prefix + gameCanReadMsgSem }

// GameDidRead is released by the game once it has read the message.
func (n Names) GameDidRead() string { return n.Prefix + gameDidReadMsgSem }

// LauncherCanRead is released by the game to wake the launcher's listener.
func (n Names) LauncherCanRead() string { return n.Prefix + launcherCanReadMsgSem }

// LauncherDidRead is released by the listener in answer.
func (n Names) LauncherDidRead() string { return n.Prefix + launcherDidReadMsgSem }

func (n Names) SharedMemory() string { return n.Prefix + sharedMemoryWithLauncher }
