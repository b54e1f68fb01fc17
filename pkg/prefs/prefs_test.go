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

package prefs

import (
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/ff78launcher/pkg/games"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVideo = Video{
	Width:           1280,
	Height:          720,
	RefreshRate:     60,
	Fullscreen:      true,
	KeepAspectRatio: true,
	LinearFiltering: false,
	OriginalMode:    true,
	PauseOnBg:       true,
}

func TestEncodeVideo_FF7(t *testing.T) {
	t.Parallel()

	want := []byte{
		0, 0, 0x05, 0x00, // 1280
		0, 0, 0x02, 0xd0, // 720
		0, 0, 0, 60,
		0, 0, 0, 1,
		0, 0, 0, 0,
		0, 0, 0, 1,
		0, 0, 0, 0,
		0, 0, 0, 1,
	}
	for _, v := range []games.Variant{games.FF7Standard, games.FF7EStore} {
		// no pause flag for FF7
		assert.Equal(t, want, EncodeVideo(v, testVideo), v.String())
	}
}

func TestEncodeVideo_FF8(t *testing.T) {
	t.Parallel()

	want := []byte{
		0x00, 0x05, 0, 0,
		0xd0, 0x02, 0, 0,
		60, 0, 0, 0,
		1, 0, 0, 0,
		0, 0, 0, 0,
		1, 0, 0, 0,
		0, 0, 0, 0,
		1, 0, 0, 0,
		1, 0, 0, 0,
	}
	assert.Equal(t, want, EncodeVideo(games.FF8, testVideo))
}

func TestEncodeSound(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]byte{100, 0, 0, 0, 35, 0, 0, 0},
		EncodeSound(Sound{SfxVolume: 100, MusicVolume: 35}),
	)
}

func TestWriter(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	dir := "/docs/Square Enix/FINAL FANTASY VIII Steam"
	require.NoError(t, fs.MkdirAll(dir, 0o755))

	w := &Writer{Fs: fs, Dir: dir}
	require.NoError(t, w.WriteVideo(games.FF8, testVideo))
	require.NoError(t, w.WriteSound(games.FF8, Sound{SfxVolume: 1, MusicVolume: 2}))

	video, err := afero.ReadFile(fs, filepath.Join(dir, "ff8video.cfg"))
	require.NoError(t, err)
	assert.Equal(t, EncodeVideo(games.FF8, testVideo), video)

	sound, err := afero.ReadFile(fs, filepath.Join(dir, "ff8sound.cfg"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0, 2, 0, 0, 0}, sound)
}

func TestWriter_ReadOnlyFs(t *testing.T) {
	t.Parallel()

	w := &Writer{Fs: afero.NewReadOnlyFs(afero.NewMemMapFs()), Dir: "/x"}
	err := w.WriteSound(games.FF7Standard, Sound{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ff7sound.cfg")
}

func TestFilenames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ff7video.cfg", VideoFilename(games.FF7EStore))
	assert.Equal(t, "ff8sound.cfg", SoundFilename(games.FF8))
}
