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

// Package telemetry provides opt-in crash reporting via Sentry and the
// top-level panic guard. User names are stripped from paths before anything
// is sent.
package telemetry

import (
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/ZaparooProject/ff78launcher/pkg/games"
	"github.com/ZaparooProject/ff78launcher/pkg/helpers"
	"github.com/getsentry/sentry-go"
	sentryzerolog "github.com/getsentry/sentry-go/zerolog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const flushTimeout = 2 * time.Second

// Options selects where reports go and what the launch looked like.
type Options struct {
	Game       *games.Game
	DSN        string
	AppVersion string
	Enabled    bool
}

type redaction struct {
	re   *regexp.Regexp
	repl string
}

var (
	enabled      bool
	sentryWriter *sentryzerolog.Writer
	closeOnce    sync.Once

	// paths sent to the game almost always sit under the user's profile
	redactions = []redaction{
		{regexp.MustCompile(`(?i)/home/[^/]+/`), "/home/<user>/"},
		{regexp.MustCompile(`(?i)/Users/[^/]+/`), "/Users/<user>/"},
		{regexp.MustCompile(`(?i)[a-z]:\\Users\\[^\\]+\\`), `C:\Users\<user>\`},
		{regexp.MustCompile(`(?i)\\users\\steamuser\\`), `\users\<user>\`},
	}
)

// Init enables Sentry reporting and tees error level logs into it. Nothing
// happens unless reporting is enabled and a DSN is set.
func Init(opts Options) error {
	if !opts.Enabled || opts.DSN == "" {
		log.Debug().Msg("error reporting disabled")
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Release:          "ff78launcher@" + opts.AppVersion,
		AttachStacktrace: true,
		SendDefaultPII:   false,
		ServerName:       "",
		MaxBreadcrumbs:   0,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return sanitizeEvent(event)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sentry: %w", err)
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTags(tags(opts.Game))
	})

	sentryWriter, err = sentryzerolog.NewWithHub(sentry.CurrentHub(), sentryzerolog.Options{
		Levels:          []zerolog.Level{zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel},
		FlushTimeout:    flushTimeout,
		WithBreadcrumbs: false,
	})
	if err != nil {
		return fmt.Errorf("failed to create sentry zerolog writer: %w", err)
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(
		helpers.LogWriter(),
		sentryWriter,
	)).With().Timestamp().Caller().Logger()

	enabled = true
	log.Info().Msg("error reporting enabled")
	return nil
}

func tags(game *games.Game) map[string]string {
	t := map[string]string{
		"os":   runtime.GOOS,
		"arch": runtime.GOARCH,
	}
	if game != nil {
		t["variant"] = game.Variant.String()
		t["lang"] = game.Lang
		t["ffnx"] = strconv.FormatBool(game.UseFFNx)
		t["chocobo"] = strconv.FormatBool(game.Chocobo)
	}
	return t
}

// Close flushes pending events and shuts down the log tee. Safe to call
// more than once.
func Close() {
	if !enabled {
		return
	}
	closeOnce.Do(func() {
		_ = sentryWriter.Close()
		sentry.Flush(flushTimeout)
	})
}

// Flush sends pending events. Call it before os.Exit.
func Flush() {
	if enabled {
		sentry.Flush(flushTimeout)
	}
}

func sanitizeEvent(event *sentry.Event) *sentry.Event {
	// the SDK may fill in the hostname anyway
	event.ServerName = ""
	event.Message = sanitizePath(event.Message)

	for i := range event.Exception {
		event.Exception[i].Value = sanitizePath(event.Exception[i].Value)
		st := event.Exception[i].Stacktrace
		if st == nil {
			continue
		}
		for j := range st.Frames {
			st.Frames[j].AbsPath = sanitizePath(st.Frames[j].AbsPath)
			st.Frames[j].Filename = sanitizePath(st.Frames[j].Filename)
		}
	}

	for k, v := range event.Extra {
		if s, ok := v.(string); ok {
			event.Extra[k] = sanitizePath(s)
		}
	}
	return event
}

func sanitizePath(s string) string {
	for _, r := range redactions {
		s = r.re.ReplaceAllLiteralString(s, r.repl)
	}
	return s
}
