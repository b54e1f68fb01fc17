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
	"context"
	"fmt"
	"time"

	"github.com/ZaparooProject/ff78launcher/pkg/helpers/syncutil"
	"github.com/ZaparooProject/ff78launcher/pkg/ipc/handshake"
	"github.com/ZaparooProject/ff78launcher/pkg/ipc/mailbox"
	"github.com/ZaparooProject/ff78launcher/pkg/launcher"
)

// IPC is an in-process stand-in for the OS namespace of named semaphores
// and shared memory. Objects opened twice by name are shared.
type IPC struct {
	Sems     *handshake.MemoryRegistry
	buffers  map[string][]byte
	unlinked map[string]int
	mu       syncutil.Mutex
}

func NewIPC() *IPC {
	return &IPC{
		Sems:     handshake.NewMemoryRegistry(),
		buffers:  make(map[string][]byte),
		unlinked: make(map[string]int),
	}
}

// OpenMailbox implements launcher.MailboxOpener.
func (i *IPC) OpenMailbox(name string, capacity int) (*mailbox.Mailbox, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	buf, ok := i.buffers[name]
	if !ok {
		buf = make([]byte, capacity)
		i.buffers[name] = buf
	}
	return mailbox.New(name, buf), nil
}

// Unlink implements SessionOptions.UnlinkMailbox.
func (i *IPC) Unlink(name string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.buffers, name)
	i.unlinked[name]++
	return nil
}

// Unlinked returns how many times name was unlinked.
func (i *IPC) Unlinked(name string) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.unlinked[name]
}

// SessionOptions returns options that run a session on this namespace.
func (i *IPC) SessionOptions(prefix string) launcher.SessionOptions {
	return launcher.SessionOptions{
		Prefix:        prefix,
		OpenSemaphore: i.Sems.Open,
		OpenMailbox:   i.OpenMailbox,
		UnlinkMailbox: i.Unlink,
	}
}

// FakeGame plays the game's side of a session: it answers each outbound
// handshake and keeps a copy of every message it was shown.
type FakeGame struct {
	ipc      *IPC
	names    launcher.Names
	received [][]byte
	// ConsumeDelay is slept before the message is read.
	ConsumeDelay time.Duration
	mu           syncutil.Mutex
}

func NewFakeGame(ipc *IPC, prefix string) *FakeGame {
	return &FakeGame{
		ipc:   ipc,
		names: launcher.Names{Prefix: prefix},
	}
}

// Run answers n messages and returns. The game reads at most readLen bytes
// of each message.
func (g *FakeGame) Run(ctx context.Context, n, readLen int) error {
	canRead, err := g.ipc.Sems.Open(g.names.GameCanRead())
	if err != nil {
		return err //nolint:wrapcheck // in-process registry
	}
	defer func() { _ = canRead.Close() }()
	didRead, err := g.ipc.Sems.Open(g.names.GameDidRead())
	if err != nil {
		return err //nolint:wrapcheck // in-process registry
	}
	defer func() { _ = didRead.Close() }()

	mb, err := g.ipc.OpenMailbox(g.names.SharedMemory(), mailbox.Capacity)
	if err != nil {
		return err
	}
	defer func() { _ = mb.Close() }()

	pair := handshake.NewPair("fake_game", canRead, didRead)
	for range n {
		err := pair.Answer(ctx, func() {
			if g.ConsumeDelay > 0 {
				time.Sleep(g.ConsumeDelay)
			}
			msg := mb.Snapshot(mailbox.LauncherPart, readLen)
			g.mu.Lock()
			g.received = append(g.received, msg)
			g.mu.Unlock()
		})
		if err != nil {
			return fmt.Errorf("fake game: %w", err)
		}
	}
	return nil
}

// Received returns the raw messages seen so far.
func (g *FakeGame) Received() [][]byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([][]byte(nil), g.received...)
}

// WakeLauncher performs one inbound handshake cycle against the session's
// listener.
func (g *FakeGame) WakeLauncher(ctx context.Context) error {
	canRead, err := g.ipc.Sems.Open(g.names.LauncherCanRead())
	if err != nil {
		return err //nolint:wrapcheck // in-process registry
	}
	didRead, err := g.ipc.Sems.Open(g.names.LauncherDidRead())
	if err != nil {
		_ = canRead.Close()
		return err //nolint:wrapcheck // in-process registry
	}
	pair := handshake.NewPair("fake_game_wake", canRead, didRead, handshake.WithSlowAfter(0))
	defer func() { _ = pair.Close() }()
	return pair.SignalAndWait(ctx) //nolint:wrapcheck // already names the pair
}
