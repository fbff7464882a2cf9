// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides leveled key/value logging on top of go-ethereum's slog based logger.
package log

import (
	"io"
	"log/slog"
	"sync"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes leveled messages with key/value context.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
	With(ctx ...any) Logger
}

// WithContext returns a logger carrying the given context. The logger resolves the root logger
// at each call, so package level loggers follow a later Init.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// Root returns the root logger.
func Root() Logger {
	return WithContext()
}

// Log levels, aliased from go-ethereum.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// legacy verbosity levels accepted by Init
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

// Init installs the root handler. verbosity follows the legacy 0 (crit) to 5 (trace) scale.
// The returned level may be changed at runtime.
func Init(w io.Writer, verbosity int, json bool, useColor bool) *slog.LevelVar {
	var level slog.LevelVar
	level.Set(ethlog.FromLegacyLevel(verbosity))
	ethlog.SetDefault(ethlog.NewLogger(NewHandler(w, &level, json, useColor)))
	return &level
}

// NewHandler creates a terminal or json handler filtered by level. Changes to level apply to
// records logged afterwards.
func NewHandler(w io.Writer, level *slog.LevelVar, json bool, useColor bool) slog.Handler {
	if json {
		return JSONHandlerWithLevel(w, level)
	}
	return NewTerminalHandlerWithLevel(w, level, useColor)
}

// Discard silences the root logger.
func Discard() {
	ethlog.SetDefault(ethlog.NewLogger(ethlog.DiscardHandler()))
}

type lazyLogger struct {
	ctx []any

	mu      sync.Mutex
	base    ethlog.Logger
	derived ethlog.Logger
}

func (l *lazyLogger) logger() ethlog.Logger {
	root := ethlog.Root()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.base != root || l.derived == nil {
		l.base = root
		l.derived = root.With(l.ctx...)
	}
	return l.derived
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.logger().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.logger().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.logger().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.logger().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.logger().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.logger().Crit(msg, ctx...) }

func (l *lazyLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	merged = append(merged, ctx...)
	return &lazyLogger{ctx: merged}
}
