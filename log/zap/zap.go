// Package zap adapts a *zap.Logger to verstore.Logger.
package zap

import (
	"fmt"
	"sort"

	"github.com/unkn0wn-root/verstore"
	"go.uber.org/zap"
)

var _ verstore.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

// New returns an adapter over l; nil l logs nothing.
func New(l *zap.Logger) ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return ZapLogger{L: l.Named("verstore")}
}

func (z ZapLogger) Debug(msg string, f verstore.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f verstore.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f verstore.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f verstore.Fields) { z.L.Error(msg, zf(f)...) }

// zf emits fields in key order. Errors keep zap's error encoding and
// verstore.Kind is written as a plain string.
func zf(f verstore.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		switch v := f[k].(type) {
		case error:
			out = append(out, zap.NamedError(k, v))
		case verstore.Kind:
			out = append(out, zap.String(k, string(v)))
		case fmt.Stringer:
			out = append(out, zap.Stringer(k, v))
		default:
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}
