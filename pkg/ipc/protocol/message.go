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

package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// Kind is the wire shape of a message.
type Kind int

const (
	// KindFlag is a bare field id.
	KindFlag Kind = iota
	// KindFlagValue is a field id followed by a u32 value.
	KindFlagValue
	// KindText is a field id, a u32 byte length and UTF-16LE text.
	KindText
	// KindTextNul is KindText followed by one zero byte not counted in the
	// length.
	KindTextNul
)

const headerSize = 4

var (
	ErrShortMessage = errors.New("message too short")
	ErrOddPayload   = errors.New("utf-16 payload has odd length")
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Message is a single record written at the launcher message part.
type Message struct {
	Text  string
	ID    uint32
	Value uint32
	Kind  Kind
}

func Flag(id uint32) Message {
	return Message{ID: id, Kind: KindFlag}
}

func FlagValue(id, value uint32) Message {
	return Message{ID: id, Kind: KindFlagValue, Value: value}
}

func Text(id uint32, text string) Message {
	return Message{ID: id, Kind: KindText, Text: text}
}

// TextNul is a text message with a trailing zero byte after the payload.
func TextNul(id uint32, text string) Message {
	return Message{ID: id, Kind: KindTextNul, Text: text}
}

// EncodeUTF16 returns s as UTF-16LE without a BOM or terminator.
func EncodeUTF16(s string) ([]byte, error) {
	b, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("failed to encode utf-16: %w", err)
	}
	return b, nil
}

// DecodeUTF16 decodes UTF-16LE bytes into a string.
func DecodeUTF16(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", ErrOddPayload
	}
	s, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("failed to decode utf-16: %w", err)
	}
	return string(s), nil
}

// Encode returns the wire bytes of m. All integers are little-endian.
func (m Message) Encode() ([]byte, error) {
	switch m.Kind {
	case KindFlag:
		return binary.LittleEndian.AppendUint32(nil, m.ID), nil
	case KindFlagValue:
		b := binary.LittleEndian.AppendUint32(make([]byte, 0, 2*headerSize), m.ID)
		return binary.LittleEndian.AppendUint32(b, m.Value), nil
	case KindText, KindTextNul:
		payload, err := EncodeUTF16(m.Text)
		if err != nil {
			return nil, err
		}
		b := make([]byte, 0, 2*headerSize+len(payload)+1)
		b = binary.LittleEndian.AppendUint32(b, m.ID)
		//nolint:gosec // payload is bounded by the mailbox capacity
		b = binary.LittleEndian.AppendUint32(b, uint32(len(payload)))
		b = append(b, payload...)
		if m.Kind == KindTextNul {
			b = append(b, 0)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown message kind: %d", m.Kind)
	}
}

// Decode parses a message of the given kind from the start of b. Trailing
// bytes beyond the message are ignored, as the game does.
func Decode(b []byte, kind Kind) (Message, error) {
	if len(b) < headerSize {
		return Message{}, ErrShortMessage
	}
	m := Message{ID: binary.LittleEndian.Uint32(b), Kind: kind}

	switch kind {
	case KindFlag:
		return m, nil
	case KindFlagValue:
		if len(b) < 2*headerSize {
			return Message{}, ErrShortMessage
		}
		m.Value = binary.LittleEndian.Uint32(b[headerSize:])
		return m, nil
	case KindText, KindTextNul:
		if len(b) < 2*headerSize {
			return Message{}, ErrShortMessage
		}
		n := int(binary.LittleEndian.Uint32(b[headerSize:]))
		rest := b[2*headerSize:]
		if n > len(rest) {
			return Message{}, fmt.Errorf("%w: payload length %d, have %d", ErrShortMessage, n, len(rest))
		}
		if kind == KindTextNul {
			if n >= len(rest) || rest[n] != 0 {
				return Message{}, errors.New("missing trailing nul after payload")
			}
		}
		text, err := DecodeUTF16(rest[:n])
		if err != nil {
			return Message{}, err
		}
		m.Text = text
		return m, nil
	default:
		return Message{}, fmt.Errorf("unknown message kind: %d", kind)
	}
}
