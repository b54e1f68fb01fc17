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

package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ZaparooProject/ff78launcher/internal/telemetry"
	"github.com/ZaparooProject/ff78launcher/pkg/config"
	"github.com/ZaparooProject/ff78launcher/pkg/games"
	"github.com/ZaparooProject/ff78launcher/pkg/helpers/command"
	"github.com/ZaparooProject/ff78launcher/pkg/launcher"
	"github.com/ZaparooProject/ff78launcher/pkg/prefs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Env holds everything Run touches outside the process, so tests can run
// it against an in-memory filesystem, fake processes and in-process IPC.
type Env struct {
	Fs          afero.Fs
	Executor    command.Executor
	DisplayMode config.DisplayModeFunc
	Documents   func() (string, error)
	// Session overrides the platform's named objects for a given prefix.
	Session    func(prefix string) launcher.SessionOptions
	InstallDir string
	// OnConfig is called once the config is loaded, before anything is
	// launched. Used to finish setting up logging and telemetry.
	OnConfig func(cfg *config.Instance, game *games.Game) error
}

// DefaultEnv runs against the real system from installDir.
func DefaultEnv(installDir string) Env {
	return Env{
		Fs:          games.DefaultFs(),
		Executor:    &command.RealExecutor{},
		DisplayMode: config.CurrentDisplayMode,
		Documents:   launcher.DocumentsDir,
		Session:     launcher.DefaultSessionOptions,
		InstallDir:  installDir,
	}
}

// Run detects the game, applies the config, writes preference files and
// launches the game with or without a launcher session.
func Run(ctx context.Context, env Env) error {
	game, err := games.Discover(env.Fs, env.InstallDir)
	if err != nil {
		return fmt.Errorf("failed to find game: %w", err)
	}

	cfg, err := config.NewConfig(
		env.Fs,
		filepath.Join(env.InstallDir, config.CfgFile),
		game.Variant,
		config.BaseDefaults,
		env.DisplayMode,
	)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log.Info().Msgf("config: %+v", cfg.Values())

	if env.OnConfig != nil {
		if err := env.OnConfig(cfg, game); err != nil {
			return err
		}
	}

	if cfg.LaunchChocobo() {
		game.EnableChocobo()
	}

	paths := launcher.NewPaths(env.Fs, env.InstallDir, game.Variant)
	if env.Documents != nil {
		paths.Documents = env.Documents
	}
	executable := filepath.Join(env.InstallDir, game.Executable)

	if !game.NeedsSession() {
		log.Info().Msgf("launching %s with FFNx context", game.Executable)
		return launcher.LaunchWithoutSession(ctx, env.Executor, executable, env.InstallDir)
	}

	log.Info().Msgf("launching %s without FFNx context", game.Executable)
	if !game.UseFFNx {
		if err := writePrefs(env.Fs, paths, game, cfg); err != nil {
			return err
		}
	}

	sess, err := launcher.OpenSession(ctx, env.Session(game.Prefix()))
	if err != nil {
		return fmt.Errorf("failed to open launcher session: %w", err)
	}

	return launcher.Launch(ctx, sess, sess.Sender(game, paths), env.Executor, executable, env.InstallDir)
}

func writePrefs(afs afero.Fs, paths *launcher.Paths, game *games.Game, cfg *config.Instance) error {
	dir, err := paths.MetadataDir()
	if err != nil {
		return fmt.Errorf("failed to resolve metadata dir: %w", err)
	}

	w := &prefs.Writer{Fs: afs, Dir: dir}
	err = w.WriteVideo(game.Variant, prefs.Video{
		Width:           cfg.WindowWidth(),
		Height:          cfg.WindowHeight(),
		RefreshRate:     cfg.RefreshRate(),
		Fullscreen:      cfg.Fullscreen(),
		KeepAspectRatio: cfg.KeepAspectRatio(),
		LinearFiltering: cfg.EnableLinearFiltering(),
		OriginalMode:    cfg.OriginalMode(),
		PauseOnBg:       cfg.PauseGameOnBackground(),
	})
	if err != nil {
		return err //nolint:wrapcheck // already names the file
	}

	//nolint:wrapcheck // already names the file
	return w.WriteSound(game.Variant, prefs.Sound{
		SfxVolume:   cfg.SfxVolume(),
		MusicVolume: cfg.MusicVolume(),
	})
}

// SetupTelemetry is the default OnConfig hook: it raises the log level when
// asked to and enables crash reporting if configured.
func SetupTelemetry(cfg *config.Instance, game *games.Game) error {
	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	enabled, dsn := cfg.ErrorReporting()
	err := telemetry.Init(telemetry.Options{
		Enabled:    enabled,
		DSN:        dsn,
		AppVersion: config.AppVersion,
		Game:       game,
	})
	if err != nil {
		// reporting is optional, never block the game on it
		log.Warn().Err(err).Msg("failed to enable error reporting")
	}
	return nil
}
