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

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ZaparooProject/ff78launcher/pkg/ipc/handshake"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Listener answers the game's launcher-bound handshake. The game only needs
// the rendezvous, so no message content is read.
type Listener struct {
	pair   *handshake.Pair
	stop   chan struct{}
	cancel context.CancelFunc
	group  *errgroup.Group
	logger zerolog.Logger
	cycles atomic.Int64
	once   atomic.Bool
}

// StartListener opens the inbound semaphores by name and starts answering
// in a new goroutine.
func StartListener(ctx context.Context, names Names, open handshake.Opener) (*Listener, error) {
	canRead, err := open(names.LauncherCanRead())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", names.LauncherCanRead(), err)
	}
	didRead, err := open(names.LauncherDidRead())
	if err != nil {
		_ = canRead.Close()
		return nil, fmt.Errorf("failed to open %s: %w", names.LauncherDidRead(), err)
	}

	ctx, cancel := context.WithCancel(ctx)
	l := &Listener{
		// the game never waits on a slow launcher, no diagnostic needed
		pair:   handshake.NewPair(names.Prefix+"_launcher", canRead, didRead, handshake.WithSlowAfter(0)),
		stop:   make(chan struct{}),
		cancel: cancel,
		logger: log.With().Str("component", "listener").Logger(),
	}

	var group errgroup.Group
	l.group = &group
	l.group.Go(func() error {
		return l.run(ctx)
	})
	return l, nil
}

func (l *Listener) stopping() bool {
	select {
	case <-l.stop:
		return true
	default:
		return false
	}
}

func (l *Listener) run(ctx context.Context) error {
	l.logger.Info().Msg("starting game message listener")
	defer func() {
		if err := l.pair.Close(); err != nil {
			l.logger.Warn().Err(err).Msg("failed to close listener semaphores")
		}
		l.logger.Info().Msg("game message listener terminated")
	}()

	for {
		// stop is only checked between cycles
		if l.stopping() {
			return nil
		}

		l.logger.Debug().Msg("waiting for launcherCanRead")
		err := l.pair.Answer(ctx, func() {
			l.logger.Debug().Msg("releasing launcherDidRead")
		})
		if err != nil {
			if l.stopping() || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		l.cycles.Add(1)
	}
}

// Cycles returns how many game wake-ups have been answered.
func (l *Listener) Cycles() int64 {
	return l.cycles.Load()
}

// Stop asks the listener to exit. A wait already in progress is
// interrupted; the loop observes the request before its next wait.
func (l *Listener) Stop() {
	if l.once.CompareAndSwap(false, true) {
		close(l.stop)
		l.cancel()
	}
}

// Wait joins the listener goroutine and returns its error.
func (l *Listener) Wait() error {
	if err := l.group.Wait(); err != nil {
		return fmt.Errorf("game message listener failed: %w", err)
	}
	return nil
}
