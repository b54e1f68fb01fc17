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

package handshake

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"github.com/ZaparooProject/ff78launcher/pkg/helpers/syncutil"
	"golang.org/x/sys/windows"
)

// ERROR_TOO_MANY_POSTS, returned when releasing past the max count.
const errTooManyPosts = syscall.Errno(298)

var (
	modkernel32          = windows.NewLazySystemDLL("kernel32.dll")
	procCreateSemaphoreW = modkernel32.NewProc("CreateSemaphoreW")
	procReleaseSemaphore = modkernel32.NewProc("ReleaseSemaphore")
)

type namedSemaphore struct {
	name   string
	handle windows.Handle
	mu     syncutil.Mutex
}

// OpenNamed creates the named semaphore with count 0 and max 1, or joins it
// when another process created it first.
func OpenNamed(name string) (Semaphore, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("invalid semaphore name %q: %w", name, err)
	}

	r1, _, e1 := procCreateSemaphoreW.Call(
		0,
		0,
		1,
		uintptr(unsafe.Pointer(namePtr)),
	)
	if r1 == 0 {
		return nil, fmt.Errorf("failed to create semaphore %s: %w", name, e1)
	}

	return &namedSemaphore{name: name, handle: windows.Handle(r1)}, nil
}

func (s *namedSemaphore) get() (windows.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == 0 {
		return 0, ErrClosed
	}
	return s.handle, nil
}

func (s *namedSemaphore) Release() error {
	h, err := s.get()
	if err != nil {
		return err
	}
	r1, _, e1 := procReleaseSemaphore.Call(uintptr(h), 1, 0)
	if r1 == 0 {
		if errors.Is(e1, errTooManyPosts) {
			return nil
		}
		return fmt.Errorf("failed to release semaphore %s: %w", s.name, e1)
	}
	return nil
}

func (s *namedSemaphore) Wait(ctx context.Context) error {
	h, err := s.get()
	if err != nil {
		return err
	}

	if ctx.Done() == nil {
		if _, err := windows.WaitForSingleObject(h, windows.INFINITE); err != nil {
			return fmt.Errorf("failed waiting on semaphore %s: %w", s.name, err)
		}
		return nil
	}

	// manual-reset, signalled when ctx is done
	cancelEvent, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		return fmt.Errorf("create cancel event: %w", err)
	}
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		_ = windows.SetEvent(cancelEvent)
		close(fired)
	})
	defer func() {
		if !stop() {
			<-fired
		}
		_ = windows.CloseHandle(cancelEvent)
	}()

	result, err := windows.WaitForMultipleObjects(
		[]windows.Handle{h, cancelEvent},
		false,
		windows.INFINITE,
	)
	if err != nil {
		return fmt.Errorf("failed waiting on semaphore %s: %w", s.name, err)
	}

	switch result {
	case windows.WAIT_OBJECT_0:
		return nil
	case windows.WAIT_OBJECT_0 + 1:
		return ctx.Err()
	default:
		return fmt.Errorf("unexpected wait result %d on semaphore %s", result, s.name)
	}
}

func (s *namedSemaphore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(s.handle)
	s.handle = 0
	if err != nil {
		return fmt.Errorf("failed to close semaphore %s: %w", s.name, err)
	}
	return nil
}
