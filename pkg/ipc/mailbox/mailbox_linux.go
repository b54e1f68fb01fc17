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

//go:build linux

package mailbox

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

const shmDir = "/dev/shm"

// OpenOrCreate opens or creates a POSIX shared memory object under /dev/shm
// and maps it read/write. Used when running sessions natively on Linux.
func OpenOrCreate(name string, capacity int) (*Mailbox, error) {
	path := filepath.Join(shmDir, strings.TrimPrefix(name, "/"))

	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open shared memory %s: %w", path, err)
	}
	// the mapping keeps the object alive after the descriptor is closed
	defer func() { _ = unix.Close(fd) }()

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, fmt.Errorf("failed to stat shared memory %s: %w", path, err)
	}
	if st.Size < int64(capacity) {
		if err := unix.Ftruncate(fd, int64(capacity)); err != nil {
			return nil, fmt.Errorf("failed to size shared memory %s: %w", path, err)
		}
	}

	view, err := unix.Mmap(fd, 0, capacity, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("failed to map shared memory %s: %w", path, err)
	}

	return &Mailbox{
		name: name,
		view: view,
		unmap: func() error {
			if err := unix.Munmap(view); err != nil {
				return fmt.Errorf("munmap: %w", err)
			}
			return nil
		},
	}, nil
}

// Unlink removes the backing object so a later session starts clean.
func Unlink(name string) error {
	path := filepath.Join(shmDir, strings.TrimPrefix(name, "/"))
	if err := unix.Unlink(path); err != nil && !errors.Is(err, unix.ENOENT) {
		return fmt.Errorf("failed to unlink %s: %w", path, err)
	}
	return nil
}
