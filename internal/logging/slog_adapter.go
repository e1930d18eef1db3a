// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

// SlogHandler implements slog.Handler on top of zerolog so slog-only
// libraries (sutureslog) end up in the same log stream.
type SlogHandler struct {
	logger zerolog.Logger
	attrs  []slog.Attr
	prefix string
}

// NewSlogHandler wraps the given zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSlogHandler(logger zerolog.Logger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

// Enabled reports whether records at level would be written.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	lvl := slogLevel(level)
	return lvl >= h.logger.GetLevel() && lvl >= zerolog.GlobalLevel()
}

// Handle writes the record. Bound attrs already carry their group prefix;
// record attrs take the prefix of the current group.
//
//nolint:gocritic // slog.Record is passed by value per slog.Handler interface
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	event := h.logger.WithLevel(slogLevel(record.Level))
	for _, attr := range h.attrs {
		event = appendAttr(event, "", attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		event = appendAttr(event, h.prefix, attr)
		return true
	})
	event.Msg(record.Message)
	return nil
}

// WithAttrs returns a handler that always writes attrs, qualified by the
// groups opened so far.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, attr := range attrs {
		if attr.Key != "" {
			attr.Key = h.prefix + attr.Key
		} else if h.prefix != "" && attr.Value.Kind() == slog.KindGroup {
			// Inline group: its members belong to the current group.
			attr.Key = strings.TrimSuffix(h.prefix, ".")
		}
		merged = append(merged, attr)
	}
	return &SlogHandler{logger: h.logger, attrs: merged, prefix: h.prefix}
}

// WithGroup returns a handler that prefixes subsequent keys with name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &SlogHandler{logger: h.logger, attrs: h.attrs, prefix: h.prefix + name + "."}
}

func appendAttr(event *zerolog.Event, prefix string, attr slog.Attr) *zerolog.Event {
	v := attr.Value.Resolve()
	if attr.Key == "" {
		if v.Kind() != slog.KindGroup {
			return event
		}
		for _, ga := range v.Group() {
			event = appendAttr(event, prefix, ga)
		}
		return event
	}
	key := prefix + attr.Key

	switch v.Kind() {
	case slog.KindString:
		return event.Str(key, v.String())
	case slog.KindInt64:
		return event.Int64(key, v.Int64())
	case slog.KindUint64:
		return event.Uint64(key, v.Uint64())
	case slog.KindFloat64:
		return event.Float64(key, v.Float64())
	case slog.KindBool:
		return event.Bool(key, v.Bool())
	case slog.KindDuration:
		return event.Dur(key, v.Duration())
	case slog.KindTime:
		return event.Time(key, v.Time())
	case slog.KindGroup:
		for _, ga := range v.Group() {
			event = appendAttr(event, key+".", ga)
		}
		return event
	default:
		if err, ok := v.Any().(error); ok {
			return event.AnErr(key, err)
		}
		return event.Interface(key, v.Any())
	}
}

func slogLevel(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// NewSlogLogger returns an slog.Logger writing through the global zerolog logger.
//
//	sup := suture.New("movierex", suture.Spec{
//		EventHook: (&sutureslog.Handler{Logger: logging.NewSlogLogger()}).MustHook(),
//	})
func NewSlogLogger() *slog.Logger {
	return slog.New(NewSlogHandler(WithComponent("supervisor")))
}

// BadgerLogger adapts a zerolog logger to badger's Logger interface.
// Badger's INFO chatter is demoted to debug.
type BadgerLogger struct {
	logger zerolog.Logger
}

// NewBadgerLogger returns a BadgerLogger tagged with the storage component.
func NewBadgerLogger() *BadgerLogger {
	return &BadgerLogger{logger: WithComponent("badger")}
}

// Errorf logs at error level.
func (b *BadgerLogger) Errorf(format string, args ...interface{}) {
	b.logger.Error().Msg(trimMsg(format, args...))
}

// Warningf logs at warn level.
func (b *BadgerLogger) Warningf(format string, args ...interface{}) {
	b.logger.Warn().Msg(trimMsg(format, args...))
}

// Infof logs at debug level.
func (b *BadgerLogger) Infof(format string, args ...interface{}) {
	b.logger.Debug().Msg(trimMsg(format, args...))
}

// Debugf logs at trace level.
func (b *BadgerLogger) Debugf(format string, args ...interface{}) {
	b.logger.Trace().Msg(trimMsg(format, args...))
}

func trimMsg(format string, args ...interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
