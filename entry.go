package verstore

import "time"

// Kind names a backend.
type Kind string

const (
	KindMemory Kind = "memory"
	KindLocal  Kind = "local"
	KindCookie Kind = "cookie"
)

// Entry is a stored value plus the metadata it was written with.
// A Set always replaces the whole entry.
type Entry[V any] struct {
	Value     V
	CreatedAt time.Time // millisecond precision
	Version   string
}

type rawGetter[V any] interface {
	GetRaw(key string) (Entry[V], bool, error)
}

// hasValidVersion is shared by all backends; "" means the current version.
func hasValidVersion[V any](s rawGetter[V], key, version, current string) (bool, error) {
	e, ok, err := s.GetRaw(key)
	if err != nil || !ok {
		return false, err
	}
	return e.Version == coalesce(version, current), nil
}

func entryFrom[V any](v V, createdAtMs int64, version string) Entry[V] {
	return Entry[V]{Value: v, CreatedAt: time.UnixMilli(createdAtMs), Version: version}
}
