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
	"testing"

	"github.com/ZaparooProject/ff78launcher/pkg/games"
	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{
			name: "install dir outside profile",
			in:   `D:\SteamLibrary\steamapps\common\FINAL FANTASY VIII`,
			want: `D:\SteamLibrary\steamapps\common\FINAL FANTASY VIII`,
		},
		{
			name: "windows save dir",
			in:   `C:\Users\Squall\Documents\Square Enix\FINAL FANTASY VIII Steam\user_1234`,
			want: `C:\Users\<user>\Documents\Square Enix\FINAL FANTASY VIII Steam\user_1234`,
		},
		{
			name: "other drive and case",
			in:   `e:\users\tifa\Documents`,
			want: `C:\Users\<user>\Documents`,
		},
		{
			name: "proton prefix",
			in:   `Z:\pfx\drive_c\users\steamuser\Documents\Square Enix`,
			want: `Z:\pfx\drive_c\users\<user>\Documents\Square Enix`,
		},
		{
			name: "linux home",
			in:   "/home/cloud/.steam/steam/steamapps/common/FINAL FANTASY VII/FF78Launcher.toml",
			want: "/home/<user>/.steam/steam/steamapps/common/FINAL FANTASY VII/FF78Launcher.toml",
		},
		{
			name: "macos users",
			in:   "/Users/aerith/src/ff78launcher",
			want: "/Users/<user>/src/ff78launcher",
		},
		{
			name: "two paths in one message",
			in:   "send user_save_dir: /home/a/x and /home/b/y",
			want: "send user_save_dir: /home/<user>/x and /home/<user>/y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizePath(tt.in))
		})
	}
}

func TestSanitizeEvent(t *testing.T) {
	t.Parallel()

	event := &sentry.Event{
		ServerName: "DESKTOP-1234",
		Message:    `failed to resolve save dir: C:\Users\cloud\Documents\Square Enix`,
		Extra: map[string]any{
			"path":  "/home/cloud/games/ff7",
			"count": 3,
		},
		Exception: []sentry.Exception{{
			Value: "open /home/cloud/FF78Launcher.toml: permission denied",
			Stacktrace: &sentry.Stacktrace{
				Frames: []sentry.Frame{{
					AbsPath:  "/Users/cloud/src/ff78launcher/pkg/launcher/sender.go",
					Filename: "pkg/launcher/sender.go",
				}},
			},
		}, {
			Value: "no stack",
		}},
	}

	result := sanitizeEvent(event)

	assert.Empty(t, result.ServerName)
	assert.Equal(t, `failed to resolve save dir: C:\Users\<user>\Documents\Square Enix`, result.Message)
	assert.Equal(t, "/home/<user>/games/ff7", result.Extra["path"])
	assert.Equal(t, 3, result.Extra["count"])
	assert.Equal(t, "open /home/<user>/FF78Launcher.toml: permission denied", result.Exception[0].Value)
	frame := result.Exception[0].Stacktrace.Frames[0]
	assert.Equal(t, "/Users/<user>/src/ff78launcher/pkg/launcher/sender.go", frame.AbsPath)
	assert.Equal(t, "pkg/launcher/sender.go", frame.Filename)
}

func TestTags(t *testing.T) {
	t.Parallel()

	got := tags(&games.Game{Variant: games.FF8, Lang: "fr", UseFFNx: true, Chocobo: true})
	assert.Equal(t, "ff8", got["variant"])
	assert.Equal(t, "fr", got["lang"])
	assert.Equal(t, "true", got["ffnx"])
	assert.Equal(t, "true", got["chocobo"])
	assert.NotEmpty(t, got["os"])

	assert.NotContains(t, tags(nil), "variant")
}

func TestInit_Disabled(t *testing.T) {
	t.Parallel()

	require.NoError(t, Init(Options{DSN: "https://key@example.invalid/1", AppVersion: "1.0.0"}))
	require.NoError(t, Init(Options{Enabled: true, AppVersion: "1.0.0"}))
	assert.False(t, enabled)

	// no-ops while disabled
	Flush()
	Close()
}
