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

package telemetry

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"
)

// handled is set by the first panic Guard recovers and never cleared.
var handled atomic.Bool

// Guard recovers a panic in the calling goroutine, logs it once and lets
// the deferring function return normally. Use as `defer telemetry.Guard()`.
//
// Only the first panic is swallowed. Any later panic, including one raised
// while the first is being handled, is logged and re-raised so the process
// crashes instead of looping through the handler.
func Guard() {
	r := recover()
	if r == nil {
		return
	}
	handlePanic(r)
}

func handlePanic(r any) {
	if !handled.CompareAndSwap(false, true) {
		log.Error().Msgf("crash while running another crash handler: %v", r)
		panic(r)
	}

	log.Error().
		Str("panic", fmt.Sprint(r)).
		Bytes("stack", debug.Stack()).
		Msg("unhandled panic, continuing")

	if enabled {
		sentry.CurrentHub().Recover(r)
		sentry.Flush(flushTimeout)
	}
}

// HadPanic reports whether Guard has recovered a panic in this process.
func HadPanic() bool {
	return handled.Load()
}
