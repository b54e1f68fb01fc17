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

package config

import (
	"testing"

	"github.com/ZaparooProject/ff78launcher/pkg/games"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cfgPath = "/games/ff/" + CfgFile

func noDisplay() (DisplayMode, bool) {
	return DisplayMode{}, false
}

func fixedDisplay(w, h, hz uint32) DisplayModeFunc {
	return func() (DisplayMode, bool) {
		return DisplayMode{Width: w, Height: h, RefreshRate: hz}, true
	}
}

func load(t *testing.T, contents string, variant games.Variant, display DisplayModeFunc) *Instance {
	t.Helper()
	fs := afero.NewMemMapFs()
	if contents != "" {
		require.NoError(t, afero.WriteFile(fs, cfgPath, []byte(contents), 0o644))
	}
	cfg, err := NewConfig(fs, cfgPath, variant, BaseDefaults, display)
	require.NoError(t, err)
	return cfg
}

func TestNewConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg := load(t, "", games.FF8, noDisplay)

	assert.Equal(t, cfgPath, cfg.Path())
	assert.Equal(t, int32(DefaultVolume), cfg.SfxVolume())
	assert.Equal(t, int32(DefaultVolume), cfg.MusicVolume())
	assert.Equal(t, uint32(fallbackWidth), cfg.WindowWidth())
	assert.Equal(t, uint32(fallbackHeight), cfg.WindowHeight())
	assert.Equal(t, uint32(fallbackRefreshHz), cfg.RefreshRate())
	assert.False(t, cfg.Fullscreen())
	assert.False(t, cfg.DebugLogging())

	enabled, dsn := cfg.ErrorReporting()
	assert.False(t, enabled)
	assert.Empty(t, dsn)
}

func TestNewConfig_FileOverlaysDefaults(t *testing.T) {
	t.Parallel()

	cfg := load(t, `
window_width = 1920
window_height = 1080
refresh_rate = 144
fullscreen = true
keep_aspect_ratio = true
enable_linear_filtering = true
music_volume = 40
pause_game_on_background = true
launch_chocobo = true
debug_logging = true
`, games.FF8, noDisplay)

	assert.Equal(t, uint32(1920), cfg.WindowWidth())
	assert.Equal(t, uint32(1080), cfg.WindowHeight())
	assert.Equal(t, uint32(144), cfg.RefreshRate())
	assert.True(t, cfg.Fullscreen())
	assert.True(t, cfg.KeepAspectRatio())
	assert.True(t, cfg.EnableLinearFiltering())
	assert.False(t, cfg.OriginalMode())
	assert.Equal(t, int32(40), cfg.MusicVolume())
	// not in the file
	assert.Equal(t, int32(DefaultVolume), cfg.SfxVolume())
	assert.True(t, cfg.PauseGameOnBackground())
	assert.True(t, cfg.LaunchChocobo())
	assert.True(t, cfg.DebugLogging())
}

func TestNewConfig_Clamps(t *testing.T) {
	t.Parallel()

	cfg := load(t, `
window_width = -5
window_height = 600
refresh_rate = -1
sfx_volume = -20
music_volume = 250
`, games.FF8, noDisplay)

	assert.Equal(t, uint32(0), cfg.WindowWidth())
	assert.Equal(t, uint32(600), cfg.WindowHeight())
	assert.Equal(t, uint32(0), cfg.RefreshRate())
	assert.Equal(t, int32(0), cfg.SfxVolume())
	assert.Equal(t, int32(maxVolume), cfg.MusicVolume())
}

func TestNewConfig_DisplayDefaults(t *testing.T) {
	t.Parallel()

	t.Run("fullscreen_uses_display_mode", func(t *testing.T) {
		t.Parallel()
		cfg := load(t, "fullscreen = true\n", games.FF8, fixedDisplay(2560, 1440, 165))

		assert.Equal(t, uint32(2560), cfg.WindowWidth())
		assert.Equal(t, uint32(1440), cfg.WindowHeight())
		assert.Equal(t, uint32(165), cfg.RefreshRate())
	})

	t.Run("fullscreen_keeps_configured_refresh", func(t *testing.T) {
		t.Parallel()
		cfg := load(t, "fullscreen = true\nrefresh_rate = 60\n", games.FF8, fixedDisplay(2560, 1440, 165))

		assert.Equal(t, uint32(60), cfg.RefreshRate())
	})

	t.Run("windowed_ignores_display_mode", func(t *testing.T) {
		t.Parallel()
		cfg := load(t, "", games.FF8, fixedDisplay(2560, 1440, 165))

		assert.Equal(t, uint32(fallbackWidth), cfg.WindowWidth())
		assert.Equal(t, uint32(fallbackHeight), cfg.WindowHeight())
		assert.Equal(t, uint32(fallbackRefreshHz), cfg.RefreshRate())
	})

	t.Run("fullscreen_without_display_falls_back", func(t *testing.T) {
		t.Parallel()
		cfg := load(t, "fullscreen = true\n", games.FF8, nil)

		assert.Equal(t, uint32(fallbackWidth), cfg.WindowWidth())
		assert.Equal(t, uint32(fallbackHeight), cfg.WindowHeight())
	})
}

func TestNewConfig_FF7Overrides(t *testing.T) {
	t.Parallel()

	for _, variant := range []games.Variant{games.FF7Standard, games.FF7EStore} {
		t.Run(variant.String(), func(t *testing.T) {
			t.Parallel()
			cfg := load(t, "pause_game_on_background = true\nlaunch_chocobo = true\n", variant, noDisplay)

			assert.False(t, cfg.PauseGameOnBackground())
			assert.False(t, cfg.LaunchChocobo())
		})
	}
}

func TestNewConfig_ErrorReporting(t *testing.T) {
	t.Parallel()

	cfg := load(t, "error_reporting = true\n", games.FF8, noDisplay)
	enabled, _ := cfg.ErrorReporting()
	assert.False(t, enabled, "no dsn configured")

	cfg = load(t, "error_reporting = true\nerror_reporting_dsn = \"https://key@example.com/1\"\n", games.FF8, noDisplay)
	enabled, dsn := cfg.ErrorReporting()
	assert.True(t, enabled)
	assert.Equal(t, "https://key@example.com/1", dsn)
}

func TestNewConfig_InvalidToml(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, cfgPath, []byte("window_width = \"wide\"\n"), 0o644))

	_, err := NewConfig(fs, cfgPath, games.FF8, BaseDefaults, noDisplay)
	require.Error(t, err)
}

func TestNewConfig_DefaultsNotShared(t *testing.T) {
	t.Parallel()

	_ = load(t, "sfx_volume = 10\n", games.FF8, noDisplay)
	assert.Equal(t, int64(DefaultVolume), BaseDefaults.SfxVolume)
}

func TestDefaultVolume(t *testing.T) {
	t.Parallel()

	cfg := load(t, "window_width = 1280\nwindow_height = 720\n", games.FF8, noDisplay)
	assert.Equal(t, int32(DefaultVolume), cfg.SfxVolume())
	assert.Equal(t, int32(DefaultVolume), cfg.MusicVolume())

	cfg = load(t, "sfx_volume = 100\nmusic_volume = 101\n", games.FF8, noDisplay)
	assert.Equal(t, int32(100), cfg.SfxVolume())
	assert.Equal(t, int32(maxVolume), cfg.MusicVolume())
}
