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

package handshake

import (
	"context"
	"sync/atomic"

	"github.com/ZaparooProject/ff78launcher/pkg/helpers/syncutil"
)

// Memory is an in-process binary semaphore.
type Memory struct {
	ch       chan struct{}
	releases atomic.Int64
	waits    atomic.Int64
}

func NewMemory() *Memory {
	return &Memory{ch: make(chan struct{}, 1)}
}

func (m *Memory) release() {
	m.releases.Add(1)
	select {
	case m.ch <- struct{}{}:
	default:
		// already at max count
	}
}

func (m *Memory) wait(ctx context.Context, closed <-chan struct{}) error {
	select {
	case <-m.ch:
		m.waits.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-closed:
		return ErrClosed
	}
}

// Releases returns the number of Release calls made on any handle.
func (m *Memory) Releases() int64 {
	return m.releases.Load()
}

// Waits returns the number of completed waits on any handle.
func (m *Memory) Waits() int64 {
	return m.waits.Load()
}

// Handle returns a new handle to the semaphore.
func (m *Memory) Handle() *MemoryHandle {
	return &MemoryHandle{sem: m, closed: make(chan struct{})}
}

// MemoryHandle is one opened handle to a Memory semaphore. Closing a handle
// leaves the semaphore and other handles usable, like an OS handle.
type MemoryHandle struct {
	sem      *Memory
	closed   chan struct{}
	closeMu  syncutil.Mutex
	isClosed bool
}

func (h *MemoryHandle) Release() error {
	if h.IsClosed() {
		return ErrClosed
	}
	h.sem.release()
	return nil
}

func (h *MemoryHandle) Wait(ctx context.Context) error {
	if h.IsClosed() {
		return ErrClosed
	}
	return h.sem.wait(ctx, h.closed)
}

func (h *MemoryHandle) Close() error {
	h.closeMu.Lock()
	defer h.closeMu.Unlock()
	if !h.isClosed {
		h.isClosed = true
		close(h.closed)
	}
	return nil
}

func (h *MemoryHandle) IsClosed() bool {
	h.closeMu.Lock()
	defer h.closeMu.Unlock()
	return h.isClosed
}

// MemoryRegistry hands out handles to named in-process semaphores, standing
// in for the OS namespace in tests and same-process sessions.
type MemoryRegistry struct {
	sems    map[string]*Memory
	handles map[string][]*MemoryHandle
	mu      syncutil.Mutex
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		sems:    make(map[string]*Memory),
		handles: make(map[string][]*MemoryHandle),
	}
}

// Get returns the named semaphore, creating it if needed.
func (r *MemoryRegistry) Get(name string) *Memory {
	r.mu.Lock()
	defer r.mu.Unlock()
	sem, ok := r.sems[name]
	if !ok {
		sem = NewMemory()
		r.sems[name] = sem
	}
	return sem
}

// Open implements Opener.
func (r *MemoryRegistry) Open(name string) (Semaphore, error) {
	h := r.Get(name).Handle()
	r.mu.Lock()
	r.handles[name] = append(r.handles[name], h)
	r.mu.Unlock()
	return h, nil
}

// OpenHandles returns how many handles to name are still open.
func (r *MemoryRegistry) OpenHandles(name string) int {
	r.mu.Lock()
	hs := append([]*MemoryHandle(nil), r.handles[name]...)
	r.mu.Unlock()

	n := 0
	for _, h := range hs {
		if !h.IsClosed() {
			n++
		}
	}
	return n
}
