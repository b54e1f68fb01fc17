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
	"os/exec"

	"github.com/ZaparooProject/ff78launcher/pkg/games"
	"github.com/ZaparooProject/ff78launcher/pkg/helpers/command"
	"github.com/ZaparooProject/ff78launcher/pkg/helpers/syncutil"
	"github.com/ZaparooProject/ff78launcher/pkg/ipc/handshake"
	"github.com/ZaparooProject/ff78launcher/pkg/ipc/mailbox"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MailboxOpener creates or joins a named shared memory region.
type MailboxOpener func(name string, capacity int) (*mailbox.Mailbox, error)

// SessionOptions selects the OS objects a session runs on.
type SessionOptions struct {
	OpenSemaphore handshake.Opener
	OpenMailbox   MailboxOpener
	// UnlinkMailbox removes the mailbox's backing object on close, where
	// the platform needs it.
	UnlinkMailbox func(name string) error
	Prefix        string
	PairOptions   []handshake.Option
}

// DefaultSessionOptions uses the platform's named objects.
func DefaultSessionOptions(prefix string) SessionOptions {
	return SessionOptions{
		Prefix:        prefix,
		OpenSemaphore: handshake.OpenNamed,
		OpenMailbox:   mailbox.OpenOrCreate,
		UnlinkMailbox: mailbox.Unlink,
	}
}

// Session holds the mailbox, the outbound pair and the listener of one
// game launch. Everything is released exactly once by Close.
type Session struct {
	mailbox  *mailbox.Mailbox
	outbound *handshake.Pair
	listener *Listener
	opts     SessionOptions
	logger   zerolog.Logger
	ID       string
	Names    Names
	mu       syncutil.Mutex
	closed   bool
}

// OpenSession creates the outbound semaphores and the mailbox, then starts
// the listener. Any creation failure is fatal to the session.
func OpenSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	if opts.OpenSemaphore == nil || opts.OpenMailbox == nil {
		return nil, errors.New("session options missing openers")
	}

	id := uuid.New().String()
	names := Names{Prefix: opts.Prefix}
	logger := log.With().Str("session", id).Str("prefix", opts.Prefix).Logger()

	canRead, err := opts.OpenSemaphore(names.GameCanRead())
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", names.GameCanRead(), err)
	}
	didRead, err := opts.OpenSemaphore(names.GameDidRead())
	if err != nil {
		_ = canRead.Close()
		return nil, fmt.Errorf("failed to create %s: %w", names.GameDidRead(), err)
	}
	outbound := handshake.NewPair(opts.Prefix+"_game", canRead, didRead, opts.PairOptions...)

	mb, err := opts.OpenMailbox(names.SharedMemory(), mailbox.Capacity)
	if err != nil {
		_ = outbound.Close()
		return nil, fmt.Errorf("failed to create %s: %w", names.SharedMemory(), err)
	}

	listener, err := StartListener(ctx, names, opts.OpenSemaphore)
	if err != nil {
		_ = mb.Close()
		_ = outbound.Close()
		return nil, err
	}

	logger.Info().Msg("session opened")

	return &Session{
		ID:       id,
		Names:    names,
		mailbox:  mb,
		outbound: outbound,
		listener: listener,
		opts:     opts,
		logger:   logger,
	}, nil
}

// Mailbox returns the session's mailbox.
func (s *Session) Mailbox() *mailbox.Mailbox {
	return s.mailbox
}

func (s *Session) Listener() *Listener {
	return s.listener
}

// Sender returns a sender writing through this session.
func (s *Session) Sender(game *games.Game, paths PathResolver) *Sender {
	return &Sender{
		Mailbox: s.mailbox,
		Pair:    s.outbound,
		Paths:   paths,
		Lang:    game.Lang,
		Variant: game.Variant,
		Logger:  &s.logger,
	}
}

// wakeListener releases launcherCanRead once through a fresh handle, for
// peers that only let the listener loop around by signalling it.
func (s *Session) wakeListener() {
	wake, err := s.opts.OpenSemaphore(s.Names.LauncherCanRead())
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to open listener wake semaphore")
		return
	}
	defer func() { _ = wake.Close() }()
	if err := wake.Release(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to wake listener")
	}
}

// Close stops and joins the listener, then releases the semaphores and the
// mailbox. Calling it again is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	s.listener.Stop()
	s.wakeListener()
	joinErr := s.listener.Wait()
	if joinErr != nil {
		s.logger.Error().Err(joinErr).Msg("listener join failed")
	}

	errs := []error{joinErr}
	if err := s.outbound.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.mailbox.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.opts.UnlinkMailbox != nil {
		if err := s.opts.UnlinkMailbox(s.Names.SharedMemory()); err != nil {
			errs = append(errs, err)
		}
	}

	s.logger.Info().Int64("listener_cycles", s.listener.Cycles()).Msg("session closed")
	return errors.Join(errs...)
}

// Launch spawns the game, sends the launcher sequence, waits for the game
// to exit and closes the session. The sequence is not cancellable once
// started; a failure in it is returned after the session is closed.
func Launch(
	ctx context.Context,
	sess *Session,
	sender *Sender,
	executor command.Executor,
	executable string,
	dir string,
) error {
	proc, err := executor.Start(ctx, command.StartOptions{Dir: dir}, executable)
	if err != nil {
		closeErr := sess.Close()
		return errors.Join(fmt.Errorf("failed to start %s: %w", executable, err), closeErr)
	}
	sess.logger.Info().Int("pid", proc.Pid()).Msgf("process %s launched", executable)

	// the outbound handshake has no timeout
	if err := sender.Send(context.WithoutCancel(ctx)); err != nil {
		closeErr := sess.Close()
		return errors.Join(err, closeErr)
	}

	waitErr := proc.Wait()
	var exitErr *exec.ExitError
	switch {
	case errors.As(waitErr, &exitErr):
		sess.logger.Info().Int("exit_code", exitErr.ExitCode()).Msg("game exited")
		waitErr = nil
	case waitErr != nil:
		waitErr = fmt.Errorf("failed waiting for %s: %w", executable, waitErr)
	default:
		sess.logger.Info().Msg("game exited")
	}

	return errors.Join(waitErr, sess.Close())
}

// LaunchWithoutSession starts the game and waits for it, for setups that
// configure the game themselves.
func LaunchWithoutSession(
	ctx context.Context,
	executor command.Executor,
	executable string,
	dir string,
) error {
	proc, err := executor.Start(ctx, command.StartOptions{Dir: dir}, executable)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", executable, err)
	}
	log.Info().Int("pid", proc.Pid()).Msgf("process %s launched without launcher session", executable)

	var exitErr *exec.ExitError
	if err := proc.Wait(); err != nil && !errors.As(err, &exitErr) {
		return fmt.Errorf("failed waiting for %s: %w", executable, err)
	}
	return nil
}
