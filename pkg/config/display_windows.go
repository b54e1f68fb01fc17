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

//go:build windows

package config

import (
	"unsafe"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"
)

// ENUM_CURRENT_SETTINGS
const enumCurrentSettings = 0xFFFFFFFF

var (
	moduser32                = windows.NewLazySystemDLL("user32.dll")
	procEnumDisplaySettingsW = moduser32.NewProc("EnumDisplaySettingsW")
)

// devModeW is the display subset of DEVMODEW.
type devModeW struct {
	DeviceName       [32]uint16
	SpecVersion      uint16
	DriverVersion    uint16
	Size             uint16
	DriverExtra      uint16
	Fields           uint32
	PositionX        int32
	PositionY        int32
	Orientation      uint32
	FixedOutput      uint32
	Color            int16
	Duplex           int16
	YResolution      int16
	TTOption         int16
	Collate          int16
	FormName         [32]uint16
	LogPixels        uint16
	BitsPerPel       uint32
	PelsWidth        uint32
	PelsHeight       uint32
	DisplayFlags     uint32
	DisplayFrequency uint32
	ICMMethod        uint32
	ICMIntent        uint32
	MediaType        uint32
	DitherType       uint32
	Reserved1        uint32
	Reserved2        uint32
	PanningWidth     uint32
	PanningHeight    uint32
}

// CurrentDisplayMode queries the primary display's current settings.
func CurrentDisplayMode() (DisplayMode, bool) {
	var dm devModeW
	dm.Size = uint16(unsafe.Sizeof(dm))

	r1, _, err := procEnumDisplaySettingsW.Call(
		0,
		enumCurrentSettings,
		uintptr(unsafe.Pointer(&dm)),
	)
	if r1 == 0 {
		log.Debug().Err(err).Msg("EnumDisplaySettingsW failed")
		return DisplayMode{}, false
	}

	return DisplayMode{
		Width:       dm.PelsWidth,
		Height:      dm.PelsHeight,
		RefreshRate: dm.DisplayFrequency,
	}, true
}
