/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log provides the slog-based application logger of screenruler.
// Records carry app and version attributes, an optional component/op pair and
// whatever the registered context provider reports (e.g. the active drag).
package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"screenruler/internal/version"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
// Environment variables understood by FromEnv:
//   - RULER_LOG_LEVEL=debug|info|warn|error
//   - RULER_LOG_FORMAT=console|json
//   - RULER_LOG_FILE=<path> (rotating JSON log)
//   - RULER_LOG_SOURCE=true|false
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string
}

var (
	mu       sync.RWMutex
	current  *slog.Logger
	provider ContextProvider
)

// ContextProvider returns attributes appended to every record at write time.
type ContextProvider func() []slog.Attr

// SetContextProvider installs p for all handlers created by Init (nil removes it).
// Takes effect for loggers obtained after the call and the ones already handed out.
func SetContextProvider(p ContextProvider) {
	mu.Lock()
	provider = p
	mu.Unlock()
}

func currentProvider() ContextProvider {
	mu.RLock()
	defer mu.RUnlock()
	return provider
}

// L returns the application logger, initializing it from the environment on first use.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Init configures the application logger and installs it as slog.Default.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	var hs []slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "json":
		hs = append(hs, slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}))
	default:
		hs = append(hs, &prettyTextHandler{opts: prettyOpts{Level: lvl, AddSource: opts.AddSource}, w: os.Stderr})
	}
	if f := strings.TrimSpace(opts.File); f != "" {
		w := &lj.Logger{Filename: f, MaxSize: 5, MaxBackups: 3, MaxAge: 14, Compress: true}
		hs = append(hs, slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}))
	}

	var h slog.Handler = hs[0]
	if len(hs) > 1 {
		h = multiHandler(hs...)
	}
	logger := slog.New(withContext(h)).With(
		slog.String("app", "screenruler"),
		slog.String("ver", version.Version),
		slog.Time("ts_init", time.Now()),
	)

	mu.Lock()
	current = logger
	mu.Unlock()
	slog.SetDefault(logger)
}

// FromEnv builds Options from RULER_LOG_* variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("RULER_LOG_LEVEL", "info"),
		Format:    getenv("RULER_LOG_FORMAT", "console"),
		AddSource: strings.EqualFold(getenv("RULER_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("RULER_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
