package verstore

import "time"

const (
	DefaultNamespace  = "verstore"
	DefaultCookieDays = 360
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// settings is Options with every default applied.
type settings struct {
	ns         string
	prefix     string
	version    string
	log        Logger
	hooks      Hooks
	now        func() time.Time
	cookieDays int
}

func resolve[V any](opts Options[V]) settings {
	s := settings{
		ns:         coalesce(opts.Namespace, DefaultNamespace),
		prefix:     opts.Prefix,
		version:    coalesce(opts.Version, BuildVersion()),
		log:        opts.Logger,
		hooks:      opts.Hooks,
		now:        opts.Now,
		cookieDays: coalesce(opts.CookieDays, DefaultCookieDays),
	}
	// interface options are nil-checked: coalesce would panic on a
	// non-comparable implementation
	if s.log == nil {
		s.log = NopLogger{}
	}
	if s.hooks == nil {
		s.hooks = NopHooks{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}
