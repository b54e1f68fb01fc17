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

// Package launcher drives the launcher side of the game handshake: it sends
// the configuration sequence through the mailbox, answers the game's own
// wake-ups and owns the lifetime of every shared OS object in a session.
package launcher

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/ff78launcher/pkg/config"
	"github.com/ZaparooProject/ff78launcher/pkg/games"
	"github.com/ZaparooProject/ff78launcher/pkg/ipc/mailbox"
	"github.com/ZaparooProject/ff78launcher/pkg/ipc/protocol"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MessageWriter is the mailbox as seen by the sender.
type MessageWriter interface {
	WriteAt(offset int, b []byte)
}

// Signaler completes one outbound handshake cycle.
type Signaler interface {
	SignalAndWait(ctx context.Context) error
}

// GameVersion is the application name and version reported to the game.
const GameVersion = config.AppName + " " + config.AppVersion

// Sender writes the launcher message sequence for one game.
type Sender struct {
	Mailbox MessageWriter
	Pair    Signaler
	Paths   PathResolver
	Logger  *zerolog.Logger
	Lang    string
	Variant games.Variant
}

func (s *Sender) logger() *zerolog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return &log.Logger
}

// Message builds the message for field f, or returns false when this
// variant skips the field.
func (s *Sender) Message(f protocol.Field) (protocol.Message, bool, error) {
	id, ok := protocol.FieldID(s.Variant, f)
	if !ok {
		return protocol.Message{}, false, nil
	}

	switch f {
	case protocol.FieldLocaleDataDir:
		return protocol.Text(id, "lang-"+s.Lang), true, nil
	case protocol.FieldUserSaveDir:
		dir, err := s.Paths.SaveDir()
		if err != nil {
			return protocol.Message{}, false, fmt.Errorf("failed to resolve save dir: %w", err)
		}
		return protocol.Text(id, dir), true, nil
	case protocol.FieldDocDir:
		dir, err := s.Paths.DocDir()
		if err != nil {
			return protocol.Message{}, false, fmt.Errorf("failed to resolve doc dir: %w", err)
		}
		return protocol.Text(id, dir), true, nil
	case protocol.FieldInstallDir:
		dir, err := s.Paths.InstallDir()
		if err != nil {
			return protocol.Message{}, false, fmt.Errorf("failed to resolve install dir: %w", err)
		}
		return protocol.TextNul(id, dir), true, nil
	case protocol.FieldGameVersion:
		return protocol.Text(id, GameVersion), true, nil
	case protocol.FieldDisableCloud, protocol.FieldEndUserInfo:
		return protocol.Flag(id), true, nil
	case protocol.FieldBgPauseEnabled:
		return protocol.FlagValue(id, 1), true, nil
	default:
		return protocol.Message{}, false, fmt.Errorf("unknown field: %d", f)
	}
}

// SendField writes one field and completes its handshake. Skipped fields
// do nothing: no write and no handshake.
func (s *Sender) SendField(ctx context.Context, f protocol.Field) error {
	msg, ok, err := s.Message(f)
	if err != nil {
		return err
	}
	if !ok {
		s.logger().Debug().Msgf("send %s: skipped for %s", f, s.Variant)
		return nil
	}

	b, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f, err)
	}

	s.Mailbox.WriteAt(mailbox.LauncherPart, b)
	s.logger().Info().
		Uint32("id", msg.ID).
		Int("bytes", len(b)).
		Str("text", msg.Text).
		Msgf("send %s", f)

	if err := s.Pair.SignalAndWait(ctx); err != nil {
		return fmt.Errorf("send %s: %w", f, err)
	}
	return nil
}

// Send runs the whole sequence in order. The first error aborts the rest;
// fields already consumed by the game stay consumed.
func (s *Sender) Send(ctx context.Context) error {
	for _, f := range protocol.Sequence {
		if err := s.SendField(ctx, f); err != nil {
			return err
		}
	}
	s.logger().Info().Msg("launcher sequence completed")
	return nil
}
