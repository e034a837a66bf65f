// Package logrus adapts a *logrus.Entry to verstore.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/verstore"
)

var _ verstore.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New returns an adapter over l tagged with component=verstore.
// nil l uses the logrus standard logger.
func New(l *logrus.Logger) LogrusLogger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return LogrusLogger{E: l.WithField("component", "verstore")}
}

func (l LogrusLogger) Debug(msg string, f verstore.Fields) { l.with(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f verstore.Fields)  { l.with(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f verstore.Fields)  { l.with(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f verstore.Fields) { l.with(f).Error(msg) }

// with maps "err" onto logrus.ErrorKey so hooks and formatters see it as the entry error.
func (l LogrusLogger) with(f verstore.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	out := make(logrus.Fields, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			out[logrus.ErrorKey] = err
			continue
		}
		if kind, ok := v.(verstore.Kind); ok {
			v = string(kind)
		}
		out[k] = v
	}
	return l.E.WithFields(out)
}
