package verstore

import (
	"time"

	"github.com/unkn0wn-root/verstore/host"
)

// Facade forwards every call to the backend chosen at construction.
// It holds no entry data and adds no validation of its own.
type Facade[V any] struct {
	backend Store[V]
}

var _ Store[struct{}] = (*Facade[struct{}])(nil)

func selectKind(win *host.Window) (Kind, error) {
	switch {
	case win == nil:
		return KindMemory, nil
	case win.LocalStorage != nil:
		return KindLocal, nil
	case win.Document != nil:
		return KindCookie, nil
	default:
		return "", ErrNoDocument
	}
}

func newFacade[V any](win *host.Window, opts Options[V]) (*Facade[V], error) {
	kind, err := selectKind(win)
	if err != nil {
		return nil, err
	}

	var b Store[V]
	switch kind {
	case KindLocal:
		b, err = NewLocalStore[V](win.LocalStorage, opts)
	case KindCookie:
		b, err = NewCookieStore[V](win.Document, opts)
	default:
		b, err = NewMemoryStore[V](opts)
	}
	if err != nil {
		return nil, err
	}

	cfg := resolve(opts)
	cfg.log.Info("storage backend selected", Fields{"backend": kind, "namespace": cfg.ns, "prefix": cfg.prefix})
	cfg.hooks.BackendSelected(kind)
	return &Facade[V]{backend: b}, nil
}

// Backend returns the selected backend.
func (f *Facade[V]) Backend() Store[V] { return f.backend }

func (f *Facade[V]) Kind() Kind   { return f.backend.Kind() }
func (f *Facade[V]) Close() error { return f.backend.Close() }

func (f *Facade[V]) Get(key string) (V, bool, error)           { return f.backend.Get(key) }
func (f *Facade[V]) GetRaw(key string) (Entry[V], bool, error) { return f.backend.GetRaw(key) }
func (f *Facade[V]) Set(key string, value V) error             { return f.backend.Set(key, value) }
func (f *Facade[V]) Delete(key string) error                   { return f.backend.Delete(key) }
func (f *Facade[V]) Flush() error                              { return f.backend.Flush() }

func (f *Facade[V]) HasValidVersion(key, version string) (bool, error) {
	return f.backend.HasValidVersion(key, version)
}
func (f *Facade[V]) FlushOldVersions() error               { return f.backend.FlushOldVersions() }
func (f *Facade[V]) FlushOlderThan(cutoff time.Time) error { return f.backend.FlushOlderThan(cutoff) }
