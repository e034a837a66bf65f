package verstore

import (
	"errors"
	"testing"
	"time"

	"github.com/unkn0wn-root/verstore/host"
)

func TestFacadeSelection(t *testing.T) {
	clk := newFakeClock()
	cases := []struct {
		name string
		win  *host.Window
		want Kind
	}{
		{"no window", nil, KindMemory},
		{"local storage", &host.Window{LocalStorage: host.NewMemoryStorage()}, KindLocal},
		{"document only", &host.Window{Document: host.NewCookieJar(clk.Now)}, KindCookie},
		{"both", &host.Window{LocalStorage: host.NewMemoryStorage(), Document: host.NewCookieJar(clk.Now)}, KindLocal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := New[int](tc.win, Options[int]{Now: clk.Now})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer f.Close()
			if f.Kind() != tc.want || f.Backend().Kind() != tc.want {
				t.Fatalf("kind=%s backend=%s want %s", f.Kind(), f.Backend().Kind(), tc.want)
			}
		})
	}
}

func TestFacadeEmptyWindow(t *testing.T) {
	if _, err := New[int](&host.Window{}, Options[int]{}); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
}

func TestFacadeBackendErrorSurfaces(t *testing.T) {
	win := &host.Window{Document: host.NewCookieJar(nil)}
	if _, err := New[int](win, Options[int]{Namespace: "has space"}); !errors.Is(err, ErrInvalidCookieName) {
		t.Fatalf("expected ErrInvalidCookieName, got %v", err)
	}
}

func TestFacadeAnnouncesSelection(t *testing.T) {
	hooks := &recordingHooks{}
	log := &recordingLogger{}
	win := &host.Window{LocalStorage: host.NewMemoryStorage()}

	f, err := New[int](win, Options[int]{Namespace: "app", Prefix: "p", Hooks: hooks, Logger: log})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if ev := hooks.last(t, "backend_selected"); ev.kind != KindLocal {
		t.Fatalf("hook kind=%s", ev.kind)
	}
	ln, ok := log.find("info", "storage backend selected")
	if !ok {
		t.Fatalf("selection not logged")
	}
	if ln.f["backend"] != KindLocal || ln.f["namespace"] != "app" || ln.f["prefix"] != "p" {
		t.Fatalf("fields=%v", ln.f)
	}
}

func TestFacadeForwards(t *testing.T) {
	storage := host.NewMemoryStorage()
	clk := newFakeClock()
	f, err := New[string](&host.Window{LocalStorage: storage}, Options[string]{Version: "v1", Now: clk.Now})
	if err != nil {
		t.Fatal(err)
	}

	if err := f.Set("k", "x"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := storage.GetItem("verstore:k"); !ok {
		t.Fatalf("facade Set did not reach the backend medium")
	}
	if e, ok, _ := f.GetRaw("k"); !ok || e.Value != "x" || e.Version != "v1" {
		t.Fatalf("GetRaw=%+v ok=%v", e, ok)
	}
	if ok, _ := f.HasValidVersion("k", ""); !ok {
		t.Fatalf("HasValidVersion current")
	}
	if ok, _ := f.HasValidVersion("k", "v0"); ok {
		t.Fatalf("HasValidVersion other version")
	}
	if err := f.FlushOldVersions(); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := f.Get("k"); !ok || v != "x" {
		t.Fatalf("FlushOldVersions removed a current entry")
	}
	clk.Advance(time.Second)
	if err := f.FlushOlderThan(clk.Now()); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := f.Get("k"); ok {
		t.Fatalf("FlushOlderThan kept an old entry")
	}
	_ = f.Set("a", "1")
	if err := f.Delete("a"); err != nil {
		t.Fatal(err)
	}
	_ = f.Set("b", "2")
	if err := f.Flush(); err != nil {
		t.Fatal(err)
	}
	if storage.Len() != 0 {
		t.Fatalf("Flush left %d items", storage.Len())
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

// The t/123 walkthrough run once per kind of window.
func TestFacadeScenarioPerWindow(t *testing.T) {
	clk := newFakeClock()
	wins := map[string]*host.Window{
		"memory": nil,
		"local":  {LocalStorage: host.NewMemoryStorage()},
		"cookie": {Document: host.NewCookieJar(clk.Now)},
	}
	for name, win := range wins {
		t.Run(name, func(t *testing.T) {
			v1, err := New[int](win, Options[int]{Version: "v1", Now: clk.Now})
			if err != nil {
				t.Fatal(err)
			}
			defer v1.Close()

			if err := v1.Set("t", 123); err != nil {
				t.Fatal(err)
			}
			if v, ok, _ := v1.Get("t"); !ok || v != 123 {
				t.Fatalf("Get=%d ok=%v", v, ok)
			}
			if ok, _ := v1.HasValidVersion("t", ""); !ok {
				t.Fatalf("freshly written entry not at current version")
			}
			if err := v1.FlushOlderThan(clk.Now().Add(-time.Minute)); err != nil {
				t.Fatal(err)
			}
			if _, ok, _ := v1.Get("t"); !ok {
				t.Fatalf("entry newer than cutoff was flushed")
			}
			if err := v1.FlushOlderThan(clk.Now()); err != nil {
				t.Fatal(err)
			}
			if _, ok, _ := v1.Get("t"); ok {
				t.Fatalf("entry at cutoff survived")
			}
		})
	}
}
