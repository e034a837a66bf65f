package verstore

import (
	"sync"
	"testing"
	"time"

	"github.com/unkn0wn-root/verstore/host"
	pr "github.com/unkn0wn-root/verstore/provider"
	"github.com/unkn0wn-root/verstore/provider/bigcache"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type hookEvent struct {
	name    string
	kind    Kind
	key     string
	op      string
	reason  string
	removed int
	skipped int
}

type recordingHooks struct {
	mu     sync.Mutex
	events []hookEvent
}

var _ Hooks = (*recordingHooks)(nil)

func (h *recordingHooks) add(e hookEvent) {
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
}

func (h *recordingHooks) DecodeFailed(kind Kind, key, reason string) {
	h.add(hookEvent{name: "decode_failed", kind: kind, key: key, reason: reason})
}
func (h *recordingHooks) SweepCompleted(kind Kind, op string, removed, skipped int) {
	h.add(hookEvent{name: "sweep_completed", kind: kind, op: op, removed: removed, skipped: skipped})
}
func (h *recordingHooks) ProviderSetRejected(key string) {
	h.add(hookEvent{name: "provider_set_rejected", key: key})
}
func (h *recordingHooks) BackendSelected(kind Kind) {
	h.add(hookEvent{name: "backend_selected", kind: kind})
}

func (h *recordingHooks) named(name string) []hookEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []hookEvent
	for _, e := range h.events {
		if e.name == name {
			out = append(out, e)
		}
	}
	return out
}

func (h *recordingHooks) last(t *testing.T, name string) hookEvent {
	t.Helper()
	evs := h.named(name)
	if len(evs) == 0 {
		t.Fatalf("no %s hook recorded", name)
	}
	return evs[len(evs)-1]
}

type logLine struct {
	level string
	msg   string
	f     Fields
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *recordingLogger) add(level, msg string, f Fields) {
	l.mu.Lock()
	l.lines = append(l.lines, logLine{level: level, msg: msg, f: f})
	l.mu.Unlock()
}

func (l *recordingLogger) Debug(msg string, f Fields) { l.add("debug", msg, f) }
func (l *recordingLogger) Info(msg string, f Fields)  { l.add("info", msg, f) }
func (l *recordingLogger) Warn(msg string, f Fields)  { l.add("warn", msg, f) }
func (l *recordingLogger) Error(msg string, f Fields) { l.add("error", msg, f) }

func (l *recordingLogger) find(level, msg string) (logLine, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ln := range l.lines {
		if ln.level == level && ln.msg == msg {
			return ln, true
		}
	}
	return logLine{}, false
}

// medium is one shared instance of every backing medium, so several stores
// (different versions or prefixes) can be opened over the same data.
type medium struct {
	clock    *fakeClock
	provider pr.Provider
	storage  *host.MemoryStorage
	jar      *host.CookieJar
}

func newMedium(t *testing.T) *medium {
	t.Helper()
	p, err := bigcache.New(bigcache.Config{})
	if err != nil {
		t.Fatalf("bigcache: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	clk := newFakeClock()
	return &medium{
		clock:    clk,
		provider: p,
		storage:  host.NewMemoryStorage(),
		jar:      host.NewCookieJar(clk.Now),
	}
}

var allKinds = []Kind{KindMemory, KindLocal, KindCookie}

func openOn[V any](t *testing.T, kind Kind, md *medium, opts Options[V]) Store[V] {
	t.Helper()
	if opts.Now == nil {
		opts.Now = md.clock.Now
	}
	var (
		s   Store[V]
		err error
	)
	switch kind {
	case KindMemory:
		opts.Provider = md.provider
		s, err = NewMemoryStore[V](opts)
	case KindLocal:
		s, err = NewLocalStore[V](md.storage, opts)
	case KindCookie:
		s, err = NewCookieStore[V](md.jar, opts)
	default:
		t.Fatalf("unknown kind %q", kind)
	}
	if err != nil {
		t.Fatalf("open %s store: %v", kind, err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type prefs struct {
	Theme  string         `json:"theme" msgpack:"theme" cbor:"theme"`
	Tags   []string       `json:"tags" msgpack:"tags" cbor:"tags"`
	Limits map[string]int `json:"limits" msgpack:"limits" cbor:"limits"`
}

func samplePrefs() prefs {
	return prefs{Theme: "dark", Tags: []string{"a", "b"}, Limits: map[string]int{"rows": 50}}
}
