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
	"errors"
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/ff78launcher/pkg/config"
	"github.com/ZaparooProject/ff78launcher/pkg/games"
	"github.com/ZaparooProject/ff78launcher/pkg/helpers/command"
	"github.com/ZaparooProject/ff78launcher/pkg/prefs"
	"github.com/ZaparooProject/ff78launcher/pkg/testing/helpers"
	"github.com/ZaparooProject/ff78launcher/pkg/testing/mocks"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const (
	installDir = "/games/FINAL FANTASY VIII"
	documents  = "/home/squall/Documents"
	ffnxSize   = 2 * 1024 * 1024
)

var metaDir = filepath.Join(documents, "Square Enix", "FINAL FANTASY VIII Steam")

type testEnv struct {
	fs       *helpers.FSHelper
	ipc      *helpers.IPC
	executor *mocks.MockExecutor
	env      Env
}

func newTestEnv(t *testing.T, exe string, af3dnSize int) *testEnv {
	t.Helper()
	fs := helpers.NewMemoryFS()
	require.NoError(t, fs.CreateGameInstall(installDir, exe, af3dnSize))
	require.NoError(t, fs.MkdirAll(filepath.Join(metaDir, "user_7")))

	ipc := helpers.NewIPC()
	executor := helpers.NewMockExecutor()
	return &testEnv{
		fs:       fs,
		ipc:      ipc,
		executor: executor,
		env: Env{
			Fs:         fs.Fs,
			Executor:   executor,
			Documents:  func() (string, error) { return documents, nil },
			Session:    ipc.SessionOptions,
			InstallDir: installDir,
		},
	}
}

func TestRun_FF8WithoutFFNx(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, "ff8_en.exe", 4096)
	require.NoError(t, te.fs.CreateConfigFile(
		filepath.Join(installDir, config.CfgFile),
		map[string]any{"music_volume": 50, "pause_game_on_background": true},
	))

	game := helpers.NewFakeGame(te.ipc, games.PrefixFF8)
	var g errgroup.Group
	g.Go(func() error { return game.Run(context.Background(), 8, 1024) })

	require.NoError(t, Run(context.Background(), te.env))
	require.NoError(t, g.Wait())

	te.executor.AssertCalled(t, "Start", mock.Anything,
		command.StartOptions{Dir: installDir}, filepath.Join(installDir, "ff8_en.exe"), mock.Anything)
	assert.Len(t, game.Received(), 8)

	sound, err := afero.ReadFile(te.env.Fs, filepath.Join(metaDir, "ff8sound.cfg"))
	require.NoError(t, err)
	assert.Equal(t, prefs.EncodeSound(prefs.Sound{SfxVolume: 100, MusicVolume: 50}), sound)

	video, err := afero.ReadFile(te.env.Fs, filepath.Join(metaDir, "ff8video.cfg"))
	require.NoError(t, err)
	require.Len(t, video, 36)
	// pause flag is the last field
	assert.Equal(t, []byte{1, 0, 0, 0}, video[32:])
}

func TestRun_FFNxSkipsSession(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, "ff8_en.exe", ffnxSize)
	require.NoError(t, Run(context.Background(), te.env))

	te.executor.AssertCalled(t, "Start", mock.Anything, mock.Anything,
		filepath.Join(installDir, "ff8_en.exe"), mock.Anything)

	assert.Zero(t, te.ipc.Sems.Get("ff8_gameCanReadMsgSem").Releases())
	exists, err := afero.Exists(te.env.Fs, filepath.Join(metaDir, "ff8video.cfg"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRun_ChocoboWithFFNx(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, "ff8_en.exe", ffnxSize)
	require.NoError(t, te.fs.CreateConfigFile(
		filepath.Join(installDir, config.CfgFile),
		map[string]any{"launch_chocobo": true},
	))

	game := helpers.NewFakeGame(te.ipc, games.PrefixChocobo)
	var g errgroup.Group
	g.Go(func() error { return game.Run(context.Background(), 8, 1024) })

	require.NoError(t, Run(context.Background(), te.env))
	require.NoError(t, g.Wait())

	te.executor.AssertCalled(t, "Start", mock.Anything, mock.Anything,
		filepath.Join(installDir, "chocobo_en.exe"), mock.Anything)
	assert.Len(t, game.Received(), 8)

	// FFNx manages the preference files
	exists, err := afero.Exists(te.env.Fs, filepath.Join(metaDir, "ff8video.cfg"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRun_NoGame(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, "readme.txt", 0)
	err := Run(context.Background(), te.env)
	require.ErrorIs(t, err, games.ErrNoGame)
	te.executor.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_OnConfigError(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, "ff8_en.exe", ffnxSize)
	boom := errors.New("boom")
	var seen *games.Game
	te.env.OnConfig = func(_ *config.Instance, g *games.Game) error {
		seen = g
		return boom
	}

	require.ErrorIs(t, Run(context.Background(), te.env), boom)
	require.NotNil(t, seen)
	assert.Equal(t, games.FF8, seen.Variant)
	te.executor.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_PrefsWriteFailure(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, "ff8_en.exe", 4096)
	te.env.Fs = afero.NewReadOnlyFs(te.env.Fs)

	err := Run(context.Background(), te.env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ff8video.cfg")
	te.executor.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDefaultEnv(t *testing.T) {
	t.Parallel()

	env := DefaultEnv(installDir)
	assert.IsType(t, &afero.OsFs{}, env.Fs)
	assert.IsType(t, &command.RealExecutor{}, env.Executor)
	assert.Equal(t, installDir, env.InstallDir)
	assert.NotNil(t, env.Session)
	assert.Nil(t, env.OnConfig)
}
