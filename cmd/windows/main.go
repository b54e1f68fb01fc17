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

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/ff78launcher/internal/telemetry"
	"github.com/ZaparooProject/ff78launcher/pkg/cli"
	"github.com/ZaparooProject/ff78launcher/pkg/config"
	"github.com/ZaparooProject/ff78launcher/pkg/games"
	"github.com/ZaparooProject/ff78launcher/pkg/helpers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	flags := cli.SetupFlags()
	flags.Pre()

	if err := flags.ChangeDir(); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		return 1
	}

	var writers []io.Writer
	if *flags.Debug {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if err := helpers.InitLogging(config.LogFile, *flags.Debug, writers); err != nil {
		_, _ = os.Stderr.WriteString("failed to set up logging: " + err.Error() + "\n")
		return 1
	}
	log.Info().Msgf("%s v%s starting", config.AppName, config.AppVersion)

	defer telemetry.Close()
	// a recovered panic still exits with an error
	defer func() {
		if telemetry.HadPanic() {
			code = 1
		}
	}()
	defer telemetry.Guard()

	installDir, err := games.WorkingDir()
	if err != nil {
		return fail(err)
	}

	env := cli.DefaultEnv(installDir)
	env.OnConfig = cli.SetupTelemetry
	if err := cli.Run(context.Background(), env); err != nil {
		return fail(err)
	}

	log.Info().Msg("launcher exited")
	return 0
}

func fail(err error) int {
	log.Error().Err(err).Msg("launch failed")
	logPath, absErr := filepath.Abs(config.LogFile)
	if absErr != nil {
		logPath = config.LogFile
	}
	telemetry.Flush()
	helpers.ShowError(logPath)
	return 1
}
