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

// Package protocol defines the messages the launcher writes into the
// mailbox and the per-variant field ids the games expect. The ids are fixed
// by the game binaries and must match byte for byte.
package protocol

import "github.com/ZaparooProject/ff78launcher/pkg/games"

// Field identifies which configuration value a message carries,
// independent of the game variant.
type Field int

const (
	FieldLocaleDataDir Field = iota
	FieldUserSaveDir
	FieldDocDir
	FieldInstallDir
	FieldGameVersion
	FieldDisableCloud
	FieldBgPauseEnabled
	FieldEndUserInfo
)

var fieldNames = map[Field]string{
	FieldLocaleDataDir:  "locale_data_dir",
	FieldUserSaveDir:    "user_save_dir",
	FieldDocDir:         "doc_dir",
	FieldInstallDir:     "install_dir",
	FieldGameVersion:    "game_version",
	FieldDisableCloud:   "disable_cloud",
	FieldBgPauseEnabled: "bg_pause_enabled",
	FieldEndUserInfo:    "end_user_info",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// Sequence is the order in which the launcher sends its fields.
var Sequence = []Field{
	FieldLocaleDataDir,
	FieldUserSaveDir,
	FieldDocDir,
	FieldInstallDir,
	FieldGameVersion,
	FieldDisableCloud,
	FieldBgPauseEnabled,
	FieldEndUserInfo,
}

var ff7Fields = map[Field]uint32{
	FieldUserSaveDir:   10,
	FieldDocDir:        11,
	FieldInstallDir:    12,
	FieldLocaleDataDir: 13,
	FieldGameVersion:   18,
	FieldDisableCloud:  22,
	FieldEndUserInfo:   24,
}

var ff7EStoreFields = map[Field]uint32{
	FieldUserSaveDir:   9,
	FieldDocDir:        10,
	FieldInstallDir:    11,
	FieldLocaleDataDir: 12,
	FieldGameVersion:   17,
	FieldEndUserInfo:   20,
}

var ff8Fields = map[Field]uint32{
	FieldUserSaveDir:    9,
	FieldDocDir:         10,
	FieldInstallDir:     11,
	FieldLocaleDataDir:  12,
	FieldGameVersion:    17,
	FieldDisableCloud:   21,
	FieldBgPauseEnabled: 23,
	FieldEndUserInfo:    24,
}

func fieldTable(v games.Variant) map[Field]uint32 {
	switch v {
	case games.FF7Standard:
		return ff7Fields
	case games.FF7EStore:
		return ff7EStoreFields
	case games.FF8:
		return ff8Fields
	default:
		return nil
	}
}

// FieldID returns the id a variant uses for f. The second value is false
// when the variant does not take that field, in which case the step is
// skipped entirely.
func FieldID(v games.Variant, f Field) (uint32, bool) {
	id, ok := fieldTable(v)[f]
	return id, ok
}
