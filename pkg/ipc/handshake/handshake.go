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

// Package handshake implements the directional rendezvous that makes the
// single-slot mailbox safe to reuse: the writer releases "ready", the reader
// consumes the message and releases "consumed", and the writer only returns
// once it has observed "consumed".
package handshake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultSlowAfter is how long SignalAndWait waits for the peer before
// logging that it may be hung. The wait itself never times out.
const DefaultSlowAfter = 10 * time.Second

var (
	ErrClosed      = errors.New("semaphore closed")
	ErrUnsupported = errors.New("named semaphores are not supported on this platform")
)

// Semaphore is a binary semaphore with a max count of 1.
type Semaphore interface {
	// Release increments the count by one. Releasing a semaphore already at
	// its max count is not an error.
	Release() error
	// Wait blocks until the semaphore is signalled or ctx is done.
	Wait(ctx context.Context) error
	Close() error
}

// Opener creates or joins a named semaphore with an initial count of 0.
type Opener func(name string) (Semaphore, error)

// Option configures a Pair.
type Option func(*Pair)

// WithClock sets the clock used for the slow peer diagnostic.
func WithClock(clock clockwork.Clock) Option {
	return func(p *Pair) {
		p.clock = clock
	}
}

// WithSlowAfter sets the slow peer threshold. Zero disables the diagnostic.
func WithSlowAfter(d time.Duration) Option {
	return func(p *Pair) {
		p.slowAfter = d
	}
}

// OnSlow replaces the default slow peer warning.
func OnSlow(fn func(name string, waited time.Duration)) Option {
	return func(p *Pair) {
		p.onSlow = fn
	}
}

// Pair is one direction of the handshake.
type Pair struct {
	Ready     Semaphore
	Consumed  Semaphore
	clock     clockwork.Clock
	onSlow    func(name string, waited time.Duration)
	name      string
	slowAfter time.Duration
}

func NewPair(name string, ready, consumed Semaphore, opts ...Option) *Pair {
	p := &Pair{
		name:      name,
		Ready:     ready,
		Consumed:  consumed,
		clock:     clockwork.NewRealClock(),
		slowAfter: DefaultSlowAfter,
		onSlow: func(name string, waited time.Duration) {
			log.Warn().
				Str("pair", name).
				Dur("waited", waited).
				Msg("peer has not consumed message yet, still waiting")
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pair) Name() string {
	return p.name
}

// SignalAndWait releases Ready by exactly one and then blocks until Consumed
// is signalled. It only returns early if ctx is done.
func (p *Pair) SignalAndWait(ctx context.Context) error {
	if err := p.Ready.Release(); err != nil {
		return fmt.Errorf("%s: failed to signal ready: %w", p.name, err)
	}

	done := make(chan struct{})
	defer close(done)
	if p.slowAfter > 0 {
		start := p.clock.Now()
		slow := p.clock.After(p.slowAfter)
		go func() {
			select {
			case <-slow:
				p.onSlow(p.name, p.clock.Since(start))
			case <-done:
			}
		}()
	}

	if err := p.Consumed.Wait(ctx); err != nil {
		return fmt.Errorf("%s: failed waiting for consumed: %w", p.name, err)
	}
	return nil
}

// Answer is the reader side of one cycle: wait for Ready, run consume, then
// release Consumed.
func (p *Pair) Answer(ctx context.Context, consume func()) error {
	if err := p.Ready.Wait(ctx); err != nil {
		return fmt.Errorf("%s: failed waiting for ready: %w", p.name, err)
	}
	if consume != nil {
		consume()
	}
	if err := p.Consumed.Release(); err != nil {
		return fmt.Errorf("%s: failed to signal consumed: %w", p.name, err)
	}
	return nil
}

// Close closes both semaphores and returns the first error.
func (p *Pair) Close() error {
	readyErr := p.Ready.Close()
	consumedErr := p.Consumed.Close()
	if readyErr != nil {
		return fmt.Errorf("%s: close ready: %w", p.name, readyErr)
	}
	if consumedErr != nil {
		return fmt.Errorf("%s: close consumed: %w", p.name, consumedErr)
	}
	return nil
}
