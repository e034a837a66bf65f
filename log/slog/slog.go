//go:build go1.21

// Package slog adapts a *log/slog.Logger to verstore.Logger.
package slog

import (
	"context"
	stdslog "log/slog"
	"sort"

	"github.com/unkn0wn-root/verstore"
)

var _ verstore.Logger = Logger{}

type Logger struct{ L *stdslog.Logger }

// New groups every record's fields under "verstore". nil l uses slog.Default().
func New(l *stdslog.Logger) Logger {
	if l == nil {
		l = stdslog.Default()
	}
	return Logger{L: l.WithGroup("verstore")}
}

func (s Logger) Debug(msg string, f verstore.Fields) { s.log(stdslog.LevelDebug, msg, f) }
func (s Logger) Info(msg string, f verstore.Fields)  { s.log(stdslog.LevelInfo, msg, f) }
func (s Logger) Warn(msg string, f verstore.Fields)  { s.log(stdslog.LevelWarn, msg, f) }
func (s Logger) Error(msg string, f verstore.Fields) { s.log(stdslog.LevelError, msg, f) }

func (s Logger) log(level stdslog.Level, msg string, f verstore.Fields) {
	ctx := context.Background()
	if !s.L.Enabled(ctx, level) {
		return
	}
	s.L.LogAttrs(ctx, level, msg, attrs(f)...)
}

func attrs(f verstore.Fields) []stdslog.Attr {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]stdslog.Attr, 0, len(f))
	for _, k := range keys {
		switch v := f[k].(type) {
		case verstore.Kind:
			out = append(out, stdslog.String(k, string(v)))
		case error:
			out = append(out, stdslog.String(k, v.Error()))
		default:
			out = append(out, stdslog.Any(k, v))
		}
	}
	return out
}
