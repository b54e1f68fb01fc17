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

// Package mailbox provides the fixed-size shared memory region used as a
// single-slot message box between the launcher and the game.
package mailbox

import (
	"errors"
	"fmt"

	"github.com/ZaparooProject/ff78launcher/pkg/helpers/syncutil"
)

const (
	// Capacity is the total size of the shared region the games map.
	Capacity = 0x20000
	// LauncherPart is the offset of the launcher message part, where every
	// outbound message is written.
	LauncherPart = 0x10000
)

var (
	ErrClosed      = errors.New("mailbox closed")
	ErrUnsupported = errors.New("named shared memory is not supported on this platform")
)

// Mailbox is a mapped shared memory region. The view is only valid until
// Close; any write after that panics instead of touching unmapped memory.
type Mailbox struct {
	unmap func() error
	name  string
	view  []byte
	mu    syncutil.Mutex
}

// New wraps a caller-owned buffer. Used for in-process sessions and tests.
func New(name string, buf []byte) *Mailbox {
	return &Mailbox{
		name:  name,
		view:  buf,
		unmap: func() error { return nil },
	}
}

func (m *Mailbox) Name() string {
	return m.name
}

// Len returns the capacity of the mapped view, or 0 once closed.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.view)
}

// WriteAt copies b into the region at offset. It performs no
// synchronisation: the caller must hold the handshake's guarantee that the
// peer is not reading. Writing outside the region panics before any byte is
// copied.
func (m *Mailbox) WriteAt(offset int, b []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.view == nil {
		panic(fmt.Sprintf("mailbox %s: write after close", m.name))
	}
	if offset < 0 || offset > len(m.view) || len(b) > len(m.view)-offset {
		panic(fmt.Sprintf(
			"mailbox %s: write of %d bytes at offset %d exceeds capacity %d",
			m.name, len(b), offset, len(m.view),
		))
	}
	copy(m.view[offset:], b)
}

// Snapshot copies n bytes starting at offset. The launcher never reads its
// own messages back; this exists for the reader side of in-process peers.
func (m *Mailbox) Snapshot(offset, n int) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.view == nil || offset < 0 || n < 0 || offset > len(m.view) || n > len(m.view)-offset {
		return nil
	}
	out := make([]byte, n)
	copy(out, m.view[offset:offset+n])
	return out
}

// Close unmaps the region. It is safe to call more than once.
func (m *Mailbox) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.view == nil {
		return nil
	}
	m.view = nil
	if err := m.unmap(); err != nil {
		return fmt.Errorf("failed to unmap %s: %w", m.name, err)
	}
	return nil
}
