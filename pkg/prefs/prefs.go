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

// Package prefs writes the fixed-layout video and sound preference files
// the games read at startup when FFNx is not installed.
package prefs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/ZaparooProject/ff78launcher/pkg/games"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Video holds the fields of ff7video.cfg and ff8video.cfg.
type Video struct {
	Width           uint32
	Height          uint32
	RefreshRate     uint32
	Fullscreen      bool
	KeepAspectRatio bool
	LinearFiltering bool
	OriginalMode    bool
	PauseOnBg       bool
}

// Sound holds the fields of ff7sound.cfg and ff8sound.cfg.
type Sound struct {
	SfxVolume   int32
	MusicVolume int32
}

func filePrefix(v games.Variant) string {
	if v.IsFF7() {
		return "ff7"
	}
	return "ff8"
}

func VideoFilename(v games.Variant) string {
	return filePrefix(v) + "video.cfg"
}

func SoundFilename(v games.Variant) string {
	return filePrefix(v) + "sound.cfg"
}

func boolU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// EncodeVideo returns the file contents for the variant. FF7 stores its
// fields big-endian; FF8 stores them little-endian and adds the background
// pause flag.
func EncodeVideo(v games.Variant, video Video) []byte {
	fields := []uint32{
		video.Width,
		video.Height,
		video.RefreshRate,
		boolU32(video.Fullscreen),
		0,
		boolU32(video.KeepAspectRatio),
		boolU32(video.LinearFiltering),
		boolU32(video.OriginalMode),
	}

	var order binary.AppendByteOrder = binary.LittleEndian
	if v.IsFF7() {
		order = binary.BigEndian
	} else {
		fields = append(fields, boolU32(video.PauseOnBg))
	}

	buf := make([]byte, 0, 4*len(fields))
	for _, f := range fields {
		buf = order.AppendUint32(buf, f)
	}
	return buf
}

func EncodeSound(sound Sound) []byte {
	var buf bytes.Buffer
	// writes to a bytes.Buffer cannot fail
	_ = binary.Write(&buf, binary.LittleEndian, sound.SfxVolume)
	_ = binary.Write(&buf, binary.LittleEndian, sound.MusicVolume)
	return buf.Bytes()
}

// Writer writes preference files into a game's metadata directory.
type Writer struct {
	Fs  afero.Fs
	Dir string
}

func (w *Writer) write(name string, data []byte) error {
	path := filepath.Join(w.Dir, name)
	if err := afero.WriteFile(w.Fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Info().Msgf("wrote %d bytes to %s", len(data), path)
	return nil
}

func (w *Writer) WriteVideo(v games.Variant, video Video) error {
	return w.write(VideoFilename(v), EncodeVideo(v, video))
}

func (w *Writer) WriteSound(v games.Variant, sound Sound) error {
	return w.write(SoundFilename(v), EncodeSound(sound))
}
