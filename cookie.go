package verstore

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/unkn0wn-root/verstore/host"
)

const day = 24 * time.Hour

// cookieEntry is one member of the cookie mapping: {"val":…,"d":<ms>,"v":"…"}.
type cookieEntry struct {
	Val json.RawMessage `json:"val"`
	D   *int64          `json:"d"`
	V   *string         `json:"v"`
}

func parseCookieEntry(raw json.RawMessage) (cookieEntry, error) {
	var e cookieEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return e, err
	}
	if e.D == nil || e.V == nil {
		return e, errMissingMeta
	}
	return e, nil
}

// mapping is the whole namespace as stored in the cookie.
type mapping map[string]json.RawMessage

type cookieStore[V any] struct {
	cfg  settings
	name string
	doc  host.Document

	// serialises this store's own load/modify/save cycles; writers outside
	// this process or store can still interleave and lose updates.
	mu sync.Mutex
}

// NewCookieStore returns a durable store kept in a single cookie on doc.
// Every operation reads the whole mapping and writes back the whole mapping.
// Sweeps drop entries that fail to parse.
func NewCookieStore[V any](doc host.Document, opts Options[V]) (Store[V], error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	cfg := resolve(opts)
	name := cfg.ns
	if cfg.prefix != "" {
		name += "_" + cfg.prefix
	}
	if err := (&http.Cookie{Name: name}).Valid(); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCookieName, name)
	}
	return &cookieStore[V]{cfg: cfg, name: name, doc: doc}, nil
}

func (s *cookieStore[V]) Kind() Kind   { return KindCookie }
func (s *cookieStore[V]) Close() error { return nil }

func (s *cookieStore[V]) Get(key string) (V, bool, error) {
	e, ok, err := s.GetRaw(key)
	return e.Value, ok, err
}

func (s *cookieStore[V]) GetRaw(key string) (Entry[V], bool, error) {
	var zero Entry[V]
	s.mu.Lock()
	m := s.loadAll()
	s.mu.Unlock()

	raw, ok := m[key]
	if !ok {
		return zero, false, nil
	}
	e, err := parseCookieEntry(raw)
	if err != nil {
		s.cfg.decodeFailed(KindCookie, s.name+"/"+key, "corrupt", err)
		return zero, false, nil
	}
	var v V
	if err := json.Unmarshal(e.Val, &v); err != nil {
		s.cfg.decodeFailed(KindCookie, s.name+"/"+key, "value_decode", err)
		return zero, false, nil
	}
	return entryFrom(v, *e.D, *e.V), true, nil
}

func (s *cookieStore[V]) Set(key string, value V) error {
	vb, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cookie set %q: encode: %w", key, err)
	}
	d := s.cfg.now().UnixMilli()
	v := s.cfg.version
	raw, err := json.Marshal(cookieEntry{Val: vb, D: &d, V: &v})
	if err != nil {
		return fmt.Errorf("cookie set %q: encode: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.loadAll()
	m[key] = raw
	return s.saveAll(m)
}

// Delete writes the mapping back even when it ends up empty.
func (s *cookieStore[V]) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.loadAll()
	delete(m, key)
	return s.saveAll(m)
}

// Flush expires the cookie instead of writing an empty mapping.
func (s *cookieStore[V]) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sw := newSweep(KindCookie, opFlush)
	sw.removed = len(s.loadAll())
	s.eraseCookie()
	return s.cfg.finish(sw)
}

func (s *cookieStore[V]) HasValidVersion(key, version string) (bool, error) {
	return hasValidVersion[V](s, key, version, s.cfg.version)
}

func (s *cookieStore[V]) FlushOldVersions() error {
	return s.filter(opFlushOldVersions, func(e cookieEntry) bool {
		return *e.V == s.cfg.version
	})
}

// FlushOlderThan keeps entries created strictly after cutoff.
func (s *cookieStore[V]) FlushOlderThan(cutoff time.Time) error {
	cut := cutoff.UnixMilli()
	return s.filter(opFlushOlderThan, func(e cookieEntry) bool {
		return *e.D > cut
	})
}

// filter rebuilds the mapping from the entries keep accepts and persists the
// rebuilt mapping. Entries that fail to parse are dropped.
func (s *cookieStore[V]) filter(op string, keep func(cookieEntry) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.loadAll()
	kept := make(mapping, len(m))
	sw := newSweep(KindCookie, op)
	for k, raw := range m {
		e, err := parseCookieEntry(raw)
		if err != nil {
			s.cfg.decodeFailed(KindCookie, s.name+"/"+k, "corrupt", err)
			sw.removed++
			continue
		}
		if !keep(e) {
			sw.removed++
			continue
		}
		kept[k] = raw
	}
	if err := s.saveAll(kept); err != nil {
		return err
	}
	return s.cfg.finish(sw)
}

// loadAll reads the whole namespace. A missing or unreadable cookie loads as
// an empty mapping. Callers hold s.mu.
func (s *cookieStore[V]) loadAll() mapping {
	raw, ok := readCookie(s.doc.Cookie(), s.name)
	if !ok || raw == "" {
		return mapping{}
	}
	text, err := url.PathUnescape(raw)
	if err != nil {
		s.cfg.decodeFailed(KindCookie, s.name, "mapping_decode", err)
		return mapping{}
	}
	var m mapping
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		s.cfg.decodeFailed(KindCookie, s.name, "mapping_decode", err)
		return mapping{}
	}
	if m == nil {
		m = mapping{}
	}
	return m
}

// saveAll replaces the whole namespace. Callers hold s.mu.
func (s *cookieStore[V]) saveAll(m mapping) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("cookie %s: encode mapping: %w", s.name, err)
	}
	s.createCookie(url.PathEscape(string(b)), s.cfg.cookieDays)
	return nil
}

func (s *cookieStore[V]) eraseCookie() {
	s.createCookie("", -1)
}

// createCookie writes "<name>=<value>; expires=<date>; path=/".
// days == 0 writes a session cookie.
func (s *cookieStore[V]) createCookie(value string, days int) {
	var b strings.Builder
	b.WriteString(s.name)
	b.WriteByte('=')
	b.WriteString(value)
	if days != 0 {
		b.WriteString("; expires=")
		b.WriteString(s.cfg.now().Add(time.Duration(days) * day).UTC().Format(http.TimeFormat))
	}
	b.WriteString("; path=/")
	s.doc.SetCookie(b.String())
}

// readCookie finds name in a "a=1; b=2" cookie string.
func readCookie(header, name string) (string, bool) {
	prefix := name + "="
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimLeft(part, " ")
		if strings.HasPrefix(part, prefix) {
			return part[len(prefix):], true
		}
	}
	return "", false
}
