package verstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/verstore/host"
	"github.com/unkn0wn-root/verstore/internal/keys"
)

var errMissingMeta = errors.New("record lacks date or version")

// localRecord is the stored text of one key: {"value":…,"date":<ms>,"version":"…"}.
type localRecord struct {
	Value   json.RawMessage `json:"value"`
	Date    *int64          `json:"date"`
	Version *string         `json:"version"`
}

func parseLocalRecord(text string) (localRecord, error) {
	var r localRecord
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return r, err
	}
	if r.Date == nil || r.Version == nil {
		return r, errMissingMeta
	}
	return r, nil
}

type localStore[V any] struct {
	cfg    settings
	space  keys.Space
	medium host.Storage
}

// NewLocalStore returns a durable store over a host.Storage. Each key is one
// JSON record, so entries are read and removed independently.
//
// Flush and the sweeps enumerate every key of the medium and only touch the
// ones matching this store's prefix. Sweeps leave records they cannot parse
// in place; Flush removes them.
func NewLocalStore[V any](storage host.Storage, opts Options[V]) (Store[V], error) {
	if storage == nil {
		return nil, ErrNoStorage
	}
	cfg := resolve(opts)
	return &localStore[V]{
		cfg:    cfg,
		space:  keys.NewSpace(cfg.ns, cfg.prefix),
		medium: storage,
	}, nil
}

func (l *localStore[V]) Kind() Kind   { return KindLocal }
func (l *localStore[V]) Close() error { return nil }

func (l *localStore[V]) Get(key string) (V, bool, error) {
	e, ok, err := l.GetRaw(key)
	return e.Value, ok, err
}

func (l *localStore[V]) GetRaw(key string) (Entry[V], bool, error) {
	var zero Entry[V]
	k := l.space.Key(key)
	text, ok, err := l.medium.GetItem(k)
	if err != nil {
		return zero, false, fmt.Errorf("local get %q: %w", key, err)
	}
	if !ok {
		return zero, false, nil
	}
	r, err := parseLocalRecord(text)
	if err != nil {
		l.cfg.decodeFailed(KindLocal, k, "corrupt", err)
		return zero, false, nil
	}
	var v V
	if err := json.Unmarshal(r.Value, &v); err != nil {
		l.cfg.decodeFailed(KindLocal, k, "value_decode", err)
		return zero, false, nil
	}
	return entryFrom(v, *r.Date, *r.Version), true, nil
}

func (l *localStore[V]) Set(key string, value V) error {
	vb, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("local set %q: encode: %w", key, err)
	}
	date := l.cfg.now().UnixMilli()
	ver := l.cfg.version
	text, err := json.Marshal(localRecord{Value: vb, Date: &date, Version: &ver})
	if err != nil {
		return fmt.Errorf("local set %q: encode: %w", key, err)
	}
	if err := l.medium.SetItem(l.space.Key(key), string(text)); err != nil {
		return fmt.Errorf("local set %q: %w", key, err)
	}
	return nil
}

func (l *localStore[V]) Delete(key string) error {
	if err := l.medium.RemoveItem(l.space.Key(key)); err != nil {
		return fmt.Errorf("local delete %q: %w", key, err)
	}
	return nil
}

func (l *localStore[V]) HasValidVersion(key, version string) (bool, error) {
	return hasValidVersion[V](l, key, version, l.cfg.version)
}

func (l *localStore[V]) Flush() error {
	all, err := l.medium.Keys()
	if err != nil {
		return fmt.Errorf("local flush: list keys: %w", err)
	}
	sw := newSweep(KindLocal, opFlush)
	for _, k := range l.space.Filter(all) {
		if err := l.medium.RemoveItem(k); err != nil {
			sw.fail(k, err)
			continue
		}
		sw.removed++
	}
	return l.cfg.finish(sw)
}

func (l *localStore[V]) FlushOldVersions() error {
	return l.sweep(opFlushOldVersions, func(r localRecord) bool {
		return *r.Version != l.cfg.version
	})
}

func (l *localStore[V]) FlushOlderThan(cutoff time.Time) error {
	cut := cutoff.UnixMilli()
	return l.sweep(opFlushOlderThan, func(r localRecord) bool {
		return *r.Date <= cut
	})
}

// sweep parses every record in the namespace and removes those matching remove.
// Unparseable records are skipped: a sweep only removes what it could verify.
func (l *localStore[V]) sweep(op string, remove func(localRecord) bool) error {
	all, err := l.medium.Keys()
	if err != nil {
		return fmt.Errorf("local %s: list keys: %w", op, err)
	}
	sw := newSweep(KindLocal, op)
	for _, k := range l.space.Filter(all) {
		text, ok, err := l.medium.GetItem(k)
		if err != nil {
			sw.fail(k, err)
			continue
		}
		if !ok {
			continue
		}
		r, err := parseLocalRecord(text)
		if err != nil {
			l.cfg.decodeFailed(KindLocal, k, "corrupt", err)
			sw.skipped++
			continue
		}
		if !remove(r) {
			continue
		}
		if err := l.medium.RemoveItem(k); err != nil {
			sw.fail(k, err)
			continue
		}
		sw.removed++
	}
	return l.cfg.finish(sw)
}
