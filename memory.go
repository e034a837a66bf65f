package verstore

import (
	"fmt"
	"time"

	c "github.com/unkn0wn-root/verstore/codec"
	"github.com/unkn0wn-root/verstore/internal/keys"
	"github.com/unkn0wn-root/verstore/internal/wire"
	pr "github.com/unkn0wn-root/verstore/provider"
	"github.com/unkn0wn-root/verstore/provider/bigcache"
)

type memoryStore[V any] struct {
	cfg   settings
	space keys.Space
	codec c.Codec[V]

	provider     pr.Provider
	ownsProvider bool
}

// NewMemoryStore returns a volatile store over opts.Provider, or over a private
// bigcache instance when no provider is given. Stores sharing one provider are
// isolated by namespace and prefix.
//
// Sweep policy: FlushOldVersions removes entries it cannot decode,
// FlushOlderThan leaves them in place.
func NewMemoryStore[V any](opts Options[V]) (Store[V], error) {
	cfg := resolve(opts)
	m := &memoryStore[V]{
		cfg:      cfg,
		space:    keys.NewSpace(cfg.ns, cfg.prefix),
		codec:    opts.Codec,
		provider: opts.Provider,
	}
	if m.codec == nil {
		m.codec = c.JSON[V]{}
	}
	if m.provider == nil {
		p, err := bigcache.New(bigcache.Config{})
		if err != nil {
			return nil, fmt.Errorf("verstore: default memory provider: %w", err)
		}
		m.provider = p
		m.ownsProvider = true
	}
	return m, nil
}

func (m *memoryStore[V]) Kind() Kind { return KindMemory }

// Close releases the provider only when the store created it.
func (m *memoryStore[V]) Close() error {
	if m.ownsProvider {
		return m.provider.Close()
	}
	return nil
}

func (m *memoryStore[V]) Get(key string) (V, bool, error) {
	e, ok, err := m.GetRaw(key)
	return e.Value, ok, err
}

func (m *memoryStore[V]) GetRaw(key string) (Entry[V], bool, error) {
	var zero Entry[V]
	k := m.space.Key(key)
	raw, ok, err := m.provider.Get(k)
	if err != nil {
		return zero, false, fmt.Errorf("memory get %q: %w", key, err)
	}
	if !ok {
		return zero, false, nil
	}
	h, payload, err := wire.DecodeEntry(raw)
	if err != nil {
		m.cfg.decodeFailed(KindMemory, k, "corrupt", err)
		return zero, false, nil
	}
	v, err := m.codec.Decode(payload)
	if err != nil {
		m.cfg.decodeFailed(KindMemory, k, "value_decode", err)
		return zero, false, nil
	}
	return entryFrom(v, h.CreatedAt, h.Version), true, nil
}

func (m *memoryStore[V]) Set(key string, value V) error {
	payload, err := m.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("memory set %q: encode: %w", key, err)
	}
	k := m.space.Key(key)
	b := wire.EncodeEntry(wire.Header{CreatedAt: m.cfg.now().UnixMilli(), Version: m.cfg.version}, payload)
	ok, err := m.provider.Set(k, b)
	if err != nil {
		return fmt.Errorf("memory set %q: %w", key, err)
	}
	if !ok {
		// never leave the previous entry readable after a refused replace
		_ = m.provider.Del(k)
		m.cfg.log.Debug("memory set rejected by provider (pressure)", Fields{"key": key})
		m.cfg.hooks.ProviderSetRejected(k)
	}
	return nil
}

func (m *memoryStore[V]) Delete(key string) error {
	if err := m.provider.Del(m.space.Key(key)); err != nil {
		return fmt.Errorf("memory delete %q: %w", key, err)
	}
	return nil
}

func (m *memoryStore[V]) HasValidVersion(key, version string) (bool, error) {
	return hasValidVersion[V](m, key, version, m.cfg.version)
}

func (m *memoryStore[V]) Flush() error {
	return m.sweep(opFlush, func(string, []byte) (bool, bool) { return true, false })
}

func (m *memoryStore[V]) FlushOldVersions() error {
	return m.sweep(opFlushOldVersions, func(k string, raw []byte) (bool, bool) {
		h, err := wire.DecodeHeader(raw)
		if err != nil {
			m.cfg.decodeFailed(KindMemory, k, "corrupt", err)
			return true, false
		}
		return h.Version != m.cfg.version, false
	})
}

func (m *memoryStore[V]) FlushOlderThan(cutoff time.Time) error {
	cut := cutoff.UnixMilli()
	return m.sweep(opFlushOlderThan, func(k string, raw []byte) (bool, bool) {
		h, err := wire.DecodeHeader(raw)
		if err != nil {
			m.cfg.decodeFailed(KindMemory, k, "corrupt", err)
			return false, true
		}
		return h.CreatedAt <= cut, false
	})
}

// sweep visits every key of the namespace currently in the provider.
// decide picks removals per entry; skip counts entries left because they could not be checked.
func (m *memoryStore[V]) sweep(op string, decide func(storageKey string, raw []byte) (remove, skip bool)) error {
	all, err := m.provider.Keys()
	if err != nil {
		return fmt.Errorf("memory %s: list keys: %w", op, err)
	}
	sw := newSweep(KindMemory, op)
	for _, k := range m.space.Filter(all) {
		raw, ok, err := m.provider.Get(k)
		if err != nil {
			sw.fail(k, err)
			continue
		}
		if !ok {
			continue // gone since Keys
		}
		rm, skip := decide(k, raw)
		if skip {
			sw.skipped++
		}
		if !rm {
			continue
		}
		if err := m.provider.Del(k); err != nil {
			sw.fail(k, err)
			continue
		}
		sw.removed++
	}
	return m.cfg.finish(sw)
}
