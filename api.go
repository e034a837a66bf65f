package verstore

import (
	"time"

	c "github.com/unkn0wn-root/verstore/codec"
	"github.com/unkn0wn-root/verstore/host"
	pr "github.com/unkn0wn-root/verstore/provider"
)

// Store is the operation surface shared by the facade and every backend.
// V is the caller's value type.
type Store[V any] interface {
	Kind() Kind
	Close() error

	// Get returns the value for key. Missing and undecodable entries both
	// report ok=false with a nil error; err is reserved for medium failures.
	Get(key string) (v V, ok bool, err error)
	GetRaw(key string) (e Entry[V], ok bool, err error)
	// Set replaces the entry for key, stamped with the current time and version.
	Set(key string, value V) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Flush removes every entry in the namespace.
	Flush() error

	// HasValidVersion reports whether key exists and was written by version
	// ("" => the current version).
	HasValidVersion(key, version string) (bool, error)
	// FlushOldVersions removes entries written by any other version.
	FlushOldVersions() error
	// FlushOlderThan removes entries created at or before cutoff.
	FlushOlderThan(cutoff time.Time) error
}

// Options configure a store. Everything is optional.
type Options[V any] struct {
	Namespace string // e.g. "myapp"; "" => DefaultNamespace
	Prefix    string // optional sub-namespace, e.g. "prefs"
	Version   string // version stamped on writes; "" => BuildVersion()

	Codec    c.Codec[V]  // memory store only; nil => codec.JSON[V]
	Provider pr.Provider // memory store only; nil => private bigcache, closed by Close

	Logger     Logger           // if nil, NopLogger is used
	Hooks      Hooks            // if nil, NopHooks is used
	Now        func() time.Time // nil => time.Now
	CookieDays int              // cookie lifetime in days; 0 => DefaultCookieDays
}

// New picks one backend from win and returns a facade over it.
// nil win selects memory; win.LocalStorage selects local; otherwise
// win.Document selects cookie. The choice never changes afterwards.
func New[V any](win *host.Window, opts Options[V]) (*Facade[V], error) {
	return newFacade[V](win, opts)
}
