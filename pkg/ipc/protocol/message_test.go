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
	"testing"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncode_LocaleMessage(t *testing.T) {
	t.Parallel()

	b, err := Text(13, "lang-en").Encode()
	require.NoError(t, err)

	// payload_len counts bytes, not UTF-16 code units
	want := []byte{
		13, 0, 0, 0,
		14, 0, 0, 0,
		'l', 0, 'a', 0, 'n', 0, 'g', 0, '-', 0, 'e', 0, 'n', 0,
	}
	assert.Equal(t, want, b)
}

func TestEncode_Flag(t *testing.T) {
	t.Parallel()

	b, err := Flag(24).Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte{24, 0, 0, 0}, b)
}

func TestEncode_FlagValue(t *testing.T) {
	t.Parallel()

	b, err := FlagValue(23, 1).Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte{23, 0, 0, 0, 1, 0, 0, 0}, b)
}

func TestEncode_TextNul(t *testing.T) {
	t.Parallel()

	b, err := TextNul(11, `C:\Games\FF8`).Encode()
	require.NoError(t, err)

	n := binary.LittleEndian.Uint32(b[4:])
	assert.Equal(t, uint32(24), n)
	// exactly one zero byte after the payload, not counted in the length
	assert.Len(t, b, 8+int(n)+1)
	assert.Equal(t, byte(0), b[len(b)-1])
}

func TestEncode_NonASCIIPath(t *testing.T) {
	t.Parallel()

	text := `C:\Users\Jérôme\Documents\ファイナルファンタジー`
	b, err := Text(10, text).Encode()
	require.NoError(t, err)

	units := utf16.Encode([]rune(text))
	assert.Equal(t, uint32(2*len(units)), binary.LittleEndian.Uint32(b[4:]))
}

func TestEncode_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := Message{ID: 1, Kind: Kind(99)}.Encode()
	require.Error(t, err)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		b    []byte
		kind Kind
	}{
		{name: "empty", b: nil, kind: KindFlag},
		{name: "flag_value_without_value", b: []byte{1, 0, 0, 0}, kind: KindFlagValue},
		{name: "text_without_length", b: []byte{1, 0, 0, 0, 2}, kind: KindText},
		{name: "length_past_end", b: []byte{1, 0, 0, 0, 4, 0, 0, 0, 'a', 0}, kind: KindText},
		{name: "odd_payload", b: []byte{1, 0, 0, 0, 1, 0, 0, 0, 'a'}, kind: KindText},
		{name: "missing_nul", b: []byte{1, 0, 0, 0, 2, 0, 0, 0, 'a', 0}, kind: KindTextNul},
		{name: "nonzero_after_payload", b: []byte{1, 0, 0, 0, 2, 0, 0, 0, 'a', 0, 7}, kind: KindTextNul},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(tt.b, tt.kind)
			require.Error(t, err)
		})
	}
}

func TestDecode_IgnoresTrailingBytes(t *testing.T) {
	t.Parallel()

	// stale bytes from a longer earlier message remain in the mailbox
	b := []byte{12, 0, 0, 0, 2, 0, 0, 0, 'x', 0, 'y', 0, 'z', 0}
	m, err := Decode(b, KindText)
	require.NoError(t, err)
	assert.Equal(t, "x", m.Text)
}

func validText() *rapid.Generator[string] {
	return rapid.String().Filter(utf8.ValidString)
}

func TestPropertyTextRoundTrip(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		id := rapid.Uint32().Draw(t, "id")
		text := validText().Draw(t, "text")
		nul := rapid.Bool().Draw(t, "nul")

		msg, kind := Text(id, text), KindText
		if nul {
			msg, kind = TextNul(id, text), KindTextNul
		}

		b, err := msg.Encode()
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		n := binary.LittleEndian.Uint32(b[4:])
		if want := 2 * len(utf16.Encode([]rune(text))); int(n) != want {
			t.Fatalf("payload_len %d, want %d", n, want)
		}
		extra := 0
		if nul {
			extra = 1
		}
		if len(b) != 8+int(n)+extra {
			t.Fatalf("message length %d, want %d", len(b), 8+int(n)+extra)
		}

		got, err := Decode(b, kind)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != id || got.Text != text {
			t.Fatalf("round trip mismatch: got (%d, %q), want (%d, %q)", got.ID, got.Text, id, text)
		}
	})
}

func TestPropertyFlagValueRoundTrip(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		id := rapid.Uint32().Draw(t, "id")
		value := rapid.Uint32().Draw(t, "value")

		b, err := FlagValue(id, value).Encode()
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := Decode(b, KindFlagValue)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != id || got.Value != value {
			t.Fatalf("got (%d, %d), want (%d, %d)", got.ID, got.Value, id, value)
		}
	})
}
