// Package asynchook moves hook delivery off the calling goroutine.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{DecodeFailedEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	store, _ := verstore.New[Prefs](win, verstore.Options[Prefs]{
//	    Namespace: "myapp",
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/verstore"
)

// Hooks queues events for a fixed worker pool. A full queue drops the event.
type Hooks struct {
	inner   verstore.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ verstore.Hooks = (*Hooks)(nil)

func New(inner verstore.Hooks, workers, qlen int) *Hooks {
	if inner == nil {
		inner = verstore.NopHooks{}
	}
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close stops accepting events, drains the queue and waits for the workers.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded because the queue was full
// or the hooks were closed.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) DecodeFailed(kind verstore.Kind, k, r string) {
	h.try(func() { h.inner.DecodeFailed(kind, k, r) })
}
func (h *Hooks) SweepCompleted(kind verstore.Kind, op string, removed, skipped int) {
	h.try(func() { h.inner.SweepCompleted(kind, op, removed, skipped) })
}
func (h *Hooks) ProviderSetRejected(k string)       { h.try(func() { h.inner.ProviderSetRejected(k) }) }
func (h *Hooks) BackendSelected(kind verstore.Kind) { h.try(func() { h.inner.BackendSelected(kind) }) }
