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

//go:build windows

package mailbox

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// OpenOrCreate creates the named file mapping, or joins it when the game
// created it first, and maps a read/write view of capacity bytes.
func OpenOrCreate(name string, capacity int) (*Mailbox, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("invalid mailbox name %q: %w", name, err)
	}

	// CreateFileMapping returns the existing object with ERROR_ALREADY_EXISTS
	// set as last error, which x/sys surfaces as a non-nil err alongside a
	// valid handle.
	handle, err := windows.CreateFileMapping(
		windows.InvalidHandle,
		nil,
		windows.PAGE_READWRITE,
		0,
		uint32(capacity), //nolint:gosec // capacity is a package constant
		namePtr,
	)
	if handle == 0 {
		return nil, fmt.Errorf("failed to create file mapping %s: %w", name, err)
	}

	addr, err := windows.MapViewOfFile(handle, windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, 0, 0, uintptr(capacity))
	if err != nil {
		_ = windows.CloseHandle(handle)
		return nil, fmt.Errorf("failed to map view of %s: %w", name, err)
	}

	//nolint:gosec // addr is a live mapping of exactly capacity bytes
	view := unsafe.Slice((*byte)(unsafe.Pointer(addr)), capacity)

	return &Mailbox{
		name: name,
		view: view,
		unmap: func() error {
			unmapErr := windows.UnmapViewOfFile(addr)
			closeErr := windows.CloseHandle(handle)
			if unmapErr != nil {
				return fmt.Errorf("unmap view: %w", unmapErr)
			}
			if closeErr != nil {
				return fmt.Errorf("close mapping handle: %w", closeErr)
			}
			return nil
		},
	}, nil
}

// Unlink is a no-op: Windows destroys the mapping with its last handle.
func Unlink(_ string) error {
	return nil
}
