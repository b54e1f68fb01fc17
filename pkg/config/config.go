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
	"errors"
	"fmt"
	"io/fs"

	"github.com/ZaparooProject/ff78launcher/pkg/games"
	"github.com/ZaparooProject/ff78launcher/pkg/helpers/syncutil"
	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	AppName    = "FF78Launcher"
	AppVersion = "1.0.0"
	CfgFile    = AppName + ".toml"
	LogFile    = AppName + ".log"

	DefaultVolume     = 100
	maxVolume         = 100
	fallbackWidth     = 640
	fallbackHeight    = 480
	fallbackRefreshHz = 60
)

// Values mirrors the config file. Integers are signed so negative values in
// the file can be clamped instead of rejected.
type Values struct {
	ErrorReportingDSN     string `toml:"error_reporting_dsn,omitempty"`
	WindowWidth           int64  `toml:"window_width"`
	WindowHeight          int64  `toml:"window_height"`
	RefreshRate           int64  `toml:"refresh_rate"`
	SfxVolume             int64  `toml:"sfx_volume" validate:"min=0,max=100"`
	MusicVolume           int64  `toml:"music_volume" validate:"min=0,max=100"`
	Fullscreen            bool   `toml:"fullscreen"`
	EnableLinearFiltering bool   `toml:"enable_linear_filtering"`
	KeepAspectRatio       bool   `toml:"keep_aspect_ratio"`
	OriginalMode          bool   `toml:"original_mode"`
	PauseGameOnBackground bool   `toml:"pause_game_on_background"`
	LaunchChocobo         bool   `toml:"launch_chocobo"`
	DebugLogging          bool   `toml:"debug_logging"`
	ErrorReporting        bool   `toml:"error_reporting"`
}

var BaseDefaults = Values{
	SfxVolume:   DefaultVolume,
	MusicVolume: DefaultVolume,
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type Instance struct {
	cfgPath string
	vals    Values
	mu      syncutil.RWMutex
}

// NewConfig reads the config file at path on top of defaults and resolves
// window geometry. A missing file is not an error.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(
	afs afero.Fs,
	path string,
	variant games.Variant,
	defaults Values,
	display DisplayModeFunc,
) (*Instance, error) {
	cfg := &Instance{
		cfgPath: path,
		vals:    defaults,
	}

	data, err := afero.ReadFile(afs, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info().Msgf("no config file found at %s, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// fields missing from the file keep their defaults
		newVals := defaults
		if err := toml.Unmarshal(data, &newVals); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		cfg.vals = newVals
	}

	cfg.normalize(variant, display)
	return cfg, nil
}

func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func (c *Instance) normalize(variant games.Variant, display DisplayModeFunc) {
	v := &c.vals

	v.WindowWidth = clamp(v.WindowWidth)
	v.WindowHeight = clamp(v.WindowHeight)
	v.RefreshRate = clamp(v.RefreshRate)
	v.SfxVolume = clamp(v.SfxVolume)
	v.MusicVolume = clamp(v.MusicVolume)

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				log.Warn().Msgf("invalid config value for %s, clamping to %d", fe.Field(), maxVolume)
				switch fe.StructField() {
				case "SfxVolume":
					v.SfxVolume = maxVolume
				case "MusicVolume":
					v.MusicVolume = maxVolume
				}
			}
		}
	}

	if v.WindowWidth == 0 && v.WindowHeight == 0 {
		var mode DisplayMode
		found := false
		if display != nil {
			mode, found = display()
		}
		if found {
			log.Info().Msgf(
				"display settings found: %dx%d (refresh rate: %d)",
				mode.Width, mode.Height, mode.RefreshRate,
			)
		}

		if v.Fullscreen && found {
			v.WindowWidth = int64(mode.Width)
			v.WindowHeight = int64(mode.Height)
			if v.RefreshRate == 0 {
				v.RefreshRate = int64(mode.RefreshRate)
			}
		} else {
			v.WindowWidth = fallbackWidth
			v.WindowHeight = fallbackHeight
			if v.RefreshRate == 0 {
				v.RefreshRate = fallbackRefreshHz
			}
		}
	}

	if variant.IsFF7() {
		v.PauseGameOnBackground = false
		v.LaunchChocobo = false
	}
}

func (c *Instance) Path() string {
	return c.cfgPath
}

// Values returns a copy of the resolved values.
func (c *Instance) Values() Values {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals
}

func (c *Instance) Fullscreen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Fullscreen
}

func (c *Instance) WindowWidth() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return uint32(c.vals.WindowWidth) //nolint:gosec // clamped to >= 0
}

func (c *Instance) WindowHeight() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return uint32(c.vals.WindowHeight) //nolint:gosec // clamped to >= 0
}

func (c *Instance) RefreshRate() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return uint32(c.vals.RefreshRate) //nolint:gosec // clamped to >= 0
}

func (c *Instance) EnableLinearFiltering() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.EnableLinearFiltering
}

func (c *Instance) KeepAspectRatio() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.KeepAspectRatio
}

func (c *Instance) OriginalMode() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.OriginalMode
}

func (c *Instance) PauseGameOnBackground() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.PauseGameOnBackground
}

func (c *Instance) SfxVolume() int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int32(c.vals.SfxVolume) //nolint:gosec // validated to 0..100
}

func (c *Instance) MusicVolume() int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int32(c.vals.MusicVolume) //nolint:gosec // validated to 0..100
}

func (c *Instance) LaunchChocobo() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.LaunchChocobo
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

// ErrorReporting returns whether crash reporting is enabled and where to.
func (c *Instance) ErrorReporting() (bool, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.ErrorReporting && c.vals.ErrorReportingDSN != "", c.vals.ErrorReportingDSN
}
